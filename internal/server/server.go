package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/qa-forum/backend/internal/comments"
	"github.com/emilythestrangee/qa-forum/backend/internal/config"
	"github.com/emilythestrangee/qa-forum/backend/internal/database"
	"github.com/emilythestrangee/qa-forum/backend/internal/handlers"
	"github.com/emilythestrangee/qa-forum/backend/internal/middleware"
	"github.com/emilythestrangee/qa-forum/backend/internal/tags"
)

type Server struct {
	cfg     *config.AppConfig
	db      database.Service
	handler *handlers.Handler
}

// New builds the server over an open database. cache may be nil.
func New(cfg *config.AppConfig, db database.Service, cache tags.Cache) *Server {
	return &Server{
		cfg:     cfg,
		db:      db,
		handler: handlers.NewHandler(db.GetDB(), cfg, cache),
	}
}

// HTTPServer creates the configured http.Server
func (s *Server) HTTPServer() *http.Server {
	port := s.cfg.Server.Port

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), gin.Logger(), gin.Recovery())

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     s.cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		// cors.New panics on an empty origin list.
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		health := s.db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	})

	h := s.handler
	requireAuth := middleware.AuthMiddleware(h.Tokens)
	optionalAuth := middleware.OptionalAuth(h.Tokens)

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", h.Auth.Register)
		api.POST("/login", h.Auth.Login)
		api.POST("/refresh", h.Auth.Refresh)

		// Public reads
		api.GET("/questions", h.Question.GetQuestions)
		api.GET("/questions/:id", h.Question.GetQuestion)
		api.GET("/questions/:id/comments", h.Comment.GetComments(comments.OnQuestion))
		api.GET("/answers/:id/comments", h.Comment.GetComments(comments.OnAnswer))
		api.GET("/tags", h.Tag.GetTags)
		api.GET("/tags/:name/questions", h.Tag.GetTagQuestions)
		api.GET("/users/:id", h.User.GetUserProfile)
		api.GET("/users/:id/questions", h.Question.GetUserQuestions)

		// Reads that show the caller's own vote when signed in
		optional := api.Group("")
		optional.Use(optionalAuth)
		{
			optional.GET("/questions/:id/answers", h.Answer.GetAnswers)
			optional.GET("/answers/:id", h.Answer.GetAnswer)
			optional.GET("/answers/:id/votes", h.Vote.GetVotes)
		}

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/me", h.Auth.GetMe)
			protected.PUT("/me", h.User.UpdateProfile)
			protected.GET("/me/answers", h.Answer.GetMyAnswers)
			protected.POST("/logout", h.Auth.Logout)

			protected.POST("/questions", h.Question.CreateQuestion)
			protected.PATCH("/questions/:id", h.Question.UpdateQuestion)
			protected.DELETE("/questions/:id", h.Question.DeleteQuestion)

			protected.POST("/questions/:id/answers", h.Answer.CreateAnswer)
			protected.PATCH("/answers/:id", h.Answer.UpdateAnswer)
			protected.DELETE("/answers/:id", h.Answer.DeleteAnswer)
			protected.POST("/answers/:id/vote", h.Vote.VoteAnswer)

			protected.POST("/comments", h.Comment.CreateComment)
			protected.POST("/questions/:id/comments", h.Comment.CreateCommentOn(comments.OnQuestion))
			protected.POST("/answers/:id/comments", h.Comment.CreateCommentOn(comments.OnAnswer))
			protected.PATCH("/comments/:kind/:commentId", h.Comment.UpdateComment)
			protected.DELETE("/comments/:kind/:commentId", h.Comment.DeleteComment)
		}
	}

	return r
}
