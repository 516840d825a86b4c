package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"payment-gateway/internal/shared/response"
	"payment-gateway/pkg/jwt"
	"payment-gateway/pkg/logger"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware - Middleware xác thực JWT token
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		// 2. Extract token từ "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		// 3. Verify và parse JWT
		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			logger.Warn("Rejected access token", map[string]interface{}{
				"error":      err.Error(),
				"path":       c.Request.URL.Path,
				"request_id": c.GetString(ContextRequestID),
			})
			response.Unauthorized(c, "invalid token")
			return
		}

		// 4. Set claims vào context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// Actor identifies the authenticated operator (email, falling back to user id)
func Actor(c *gin.Context) string {
	if email := c.GetString(ContextEmail); email != "" {
		return email
	}
	return c.GetString(ContextUserID)
}
