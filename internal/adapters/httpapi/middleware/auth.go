package middleware

import (
	"net/http"
	"strings"

	"postflow/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const currentUserKey = "currentUser"

// JWTAuthMiddleware validates the Bearer token and stores the CurrentUser in the context.
func JWTAuthMiddleware(tokens *auth.TokenManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// CORS preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			logger.Debug("JWT validation error", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by JWTAuthMiddleware.
func CurrentUser(c *gin.Context) (auth.CurrentUser, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return auth.CurrentUser{}, false
	}
	user, ok := v.(auth.CurrentUser)
	return user, ok
}
