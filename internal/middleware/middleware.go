package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
)

const (
	userIDKey    = "user_id"
	requestIDKey = "request_id"

	RequestIDHeader   = "X-Request-ID"
	AccessTokenCookie = "accessToken"
)

// TokenResolver turns an access token into a user id.
type TokenResolver interface {
	ResolveAccessToken(token string) (int, error)
}

// RequestID tags every request with an id, reusing the caller's if sent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// bearerToken reads the access token from the Authorization header, falling
// back to the accessToken cookie.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolver.ResolveAccessToken(bearerToken(c))
		if err != nil {
			msg := "Unauthorized"
			if appErr, ok := apperror.FromError(err); ok {
				msg = appErr.Message
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperror.ErrorResponse{Error: msg})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if userID, err := resolver.ResolveAccessToken(token); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated caller, if any.
func UserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
