package middleware

import (
	"strings"

	"nexus_academy_backend/internal/config"
	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/service"
	"nexus_academy_backend/internal/util"
	"nexus_academy_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware validates the Bearer token and stashes the claims on the
// context for handlers and downstream middleware.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(strings.TrimPrefix(header, "Bearer "), cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// RoleMiddleware restricts a route group to the given roles. Must run
// after AuthMiddleware.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		util.Forbidden(c)
		c.Abort()
	}
}

// ActivityMiddleware bumps the student's last-active timestamp on
// authenticated requests. Best effort; failures are logged, not surfaced.
func ActivityMiddleware(students *service.StudentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := util.GetUserFromContext(c); claims != nil {
			if err := students.Touch(claims.StudentID); err != nil {
				logger.Log.Warn("last-active update failed",
					zap.Uint("student_id", claims.StudentID), zap.Error(err))
			}
		}
		c.Next()
	}
}
