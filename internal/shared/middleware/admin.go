package middleware

import (
	"github.com/gin-gonic/gin"

	"payment-gateway/internal/shared/response"
)

const RoleAdmin = "admin"

// AdminMiddleware checks if user has admin role
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get role from context (set by AuthMiddleware)
		if c.GetString(ContextRole) != RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			return
		}

		c.Next()
	}
}
