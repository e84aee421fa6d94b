package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/qa-forum/backend/internal/auth"
	"github.com/emilythestrangee/qa-forum/backend/internal/config"
	"github.com/emilythestrangee/qa-forum/backend/internal/middleware"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
)

const refreshTokenCookie = "refreshToken"

type AuthHandler struct {
	service      *auth.Service
	cfg          *config.AuthConfig
	cookieSecure bool
}

func NewAuthHandler(service *auth.Service, cfg *config.AuthConfig, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: service, cfg: cfg, cookieSecure: cookieSecure}
}

func (h *AuthHandler) setCookies(c *gin.Context, tokens auth.Tokens) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken, int(h.cfg.AccessTTL.Seconds()), "/", "", h.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, tokens.RefreshToken, int(h.cfg.RefreshTTL.Seconds()), "/", "", h.cookieSecure, true)
}

func (h *AuthHandler) clearCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", h.cookieSecure, true)
}

// Register creates an account
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), auth.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Bio:      input.Bio,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
}

// Login checks credentials and hands out a token pair, also as cookies
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookies(c, session.Tokens)
	c.JSON(http.StatusOK, session)
}

// Refresh rotates the token pair. The refresh token comes from the body or the cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input models.RefreshRequest
	_ = c.ShouldBindJSON(&input)
	token := input.RefreshToken
	if token == "" {
		token, _ = c.Cookie(refreshTokenCookie)
	}

	session, err := h.service.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookies(c, session.Tokens)
	c.JSON(http.StatusOK, session)
}

// Logout (PROTECTED)
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	h.clearCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetMe returns the authenticated user (PROTECTED)
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
