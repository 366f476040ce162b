package middleware

import (
	"context"
	"net/http"

	"azarpredictor-backend/internal/utils"
	"azarpredictor-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// AdminSubjectKey holds the token subject of an authenticated admin.
	AdminSubjectKey = "adminSubject"
	// AdminTokenKey holds the raw bearer token of an authenticated admin.
	AdminTokenKey = "adminToken"
)

// TokenChecker reports whether a token has been revoked.
type TokenChecker interface {
	Contains(ctx context.Context, tokenString string) (bool, error)
}

// AdminAuthMiddleware validates that the bearer token carries the admin role
// and has not been revoked. denylist may be nil.
func AdminAuthMiddleware(secret string, denylist TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := utils.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.NewErrorResponse(err.Error()))
			return
		}

		if denylist != nil {
			revoked, err := denylist.Contains(c.Request.Context(), tokenString)
			if err != nil {
				logger.Log.Error("token denylist lookup failed", zap.String("request_id", RequestID(c)), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to check token status"))
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, utils.NewErrorResponse("Token has been revoked"))
				return
			}
		}

		claims, err := utils.ValidateToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.NewErrorResponse("Invalid or expired token"))
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != "admin" {
			logger.Log.Warn("Unauthorized admin access attempt",
				zap.String("request_id", RequestID(c)),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, utils.NewErrorResponse("Forbidden: Admins only"))
			return
		}

		subject, _ := claims["sub"].(string)
		if subject == "" {
			subject = "admin"
		}
		c.Set(AdminSubjectKey, subject)
		c.Set(AdminTokenKey, tokenString)

		c.Next()
	}
}
