package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"libreria-backend/internal/shared/response"
)

// AdminMiddleware gates a route on the admin role. Must run after
// AuthMiddleware, which sets the role claim in the context.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(ContextRole)
		if !exists {
			response.Error(c, http.StatusForbidden, "access denied: admin role required")
			c.Abort()
			return
		}

		role, ok := roleValue.(string)
		if !ok || role != "admin" {
			response.Error(c, http.StatusForbidden, "access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
