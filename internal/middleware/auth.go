package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"arwear-backend/internal/models"
	"arwear-backend/internal/token"
)

const UserIDKey = "user_id"

// UserLookup is the identity collaborator: it confirms that the subject of a
// valid token still exists.
type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
}

// RequireAuth rejects any request that does not carry a bearer token for an
// existing user. On success the caller's id is stored in the gin context
// under UserIDKey.
func RequireAuth(secret string, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveCaller(c, secret, users)
		if !ok {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "invalid authentication token"})
			c.Abort()
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present and lets the
// request through either way. Routes behind it decide per record whether an
// anonymous caller is acceptable.
func OptionalAuth(secret string, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := resolveCaller(c, secret, users); ok {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

// RequireAdmin gates administrative routes behind a statically configured
// token. An empty configured token disables the routes entirely.
func RequireAdmin(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied, ok := bearerToken(c)
		if !ok || adminToken == "" || supplied != adminToken {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated caller set by RequireAuth or
// OptionalAuth, or nil for an anonymous request.
func CallerID(c *gin.Context) *uuid.UUID {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

func resolveCaller(c *gin.Context, secret string, users UserLookup) (uuid.UUID, bool) {
	tokenString, ok := bearerToken(c)
	if !ok {
		return uuid.Nil, false
	}

	sub, err := token.Verify(secret, tokenString)
	if err != nil {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, false
	}

	// A token for a deleted user is as good as no token.
	if _, err := users.GetUser(c.Request.Context(), userID); err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	tokenString := strings.TrimSpace(parts[1])
	return tokenString, tokenString != ""
}
