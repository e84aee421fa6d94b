package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/qa-forum/backend/internal/aggregate"
	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/auth"
	"github.com/emilythestrangee/qa-forum/backend/internal/config"
	"github.com/emilythestrangee/qa-forum/backend/internal/content"
	"github.com/emilythestrangee/qa-forum/backend/internal/middleware"
	"github.com/emilythestrangee/qa-forum/backend/internal/tags"
	"github.com/emilythestrangee/qa-forum/backend/internal/votes"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	Vote     *VoteHandler
	Comment  *CommentHandler
	User     *UserHandler
	Tag      *TagHandler

	// Tokens resolves access tokens for the auth middleware.
	Tokens middleware.TokenResolver
}

// NewHandler wires every service over one gorm handle.
func NewHandler(db *gorm.DB, cfg *config.AppConfig, cache tags.Cache) *Handler {
	mapper := aggregate.NewMapper(db)
	tagManager := tags.NewManager(db, mapper, cache)
	writer := content.NewWriter(db, tagManager, mapper)
	authService := auth.NewService(db, cfg.Auth)
	ledger := votes.NewLedger(db)

	return &Handler{
		Auth:     NewAuthHandler(authService, cfg.Auth, cfg.Server.CookieSecure),
		Question: NewQuestionHandler(mapper, writer),
		Answer:   NewAnswerHandler(mapper, writer),
		Vote:     NewVoteHandler(ledger),
		Comment:  NewCommentHandler(mapper, writer),
		User:     NewUserHandler(authService, mapper),
		Tag:      NewTagHandler(tagManager),
		Tokens:   authService,
	}
}

// respondError writes err as {"error": message} with the status its type maps to.
// Anything unclassified or server-side is logged with the request id.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("internal server error", err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, appErr.ToResponse())
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, apperror.ErrorResponse{Error: err.Error()})
}

// pathID parses a positive integer path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apperror.ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated caller. Routes using it sit behind
// AuthMiddleware, so a miss means the route was wired wrong.
func currentUser(c *gin.Context) (int, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apperror.ErrorResponse{Error: "User not authenticated"})
		return 0, false
	}
	return id, true
}

// optionalUser is the caller's id for routes behind OptionalAuth.
func optionalUser(c *gin.Context) *int {
	if id, ok := middleware.UserID(c); ok {
		return &id
	}
	return nil
}

func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}
