package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/Bekzhanizb/GreenVerseBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userKey = "user"

type UserLoader interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware resolves the bearer token to a stored user and puts it in
// the context under "user".
func AuthMiddleware(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.Logger.Warn("token_parse_error", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if errors.Is(err, models.ErrNotFound) {
			utils.Logger.Warn("user_not_found", zap.String("user_id", claims.UserID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			utils.Logger.Error("user_lookup_failed", zap.String("user_id", claims.UserID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
			return
		}

		c.Set(userKey, *user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
