package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"payment-gateway/internal/shared/utils"
)

type contextKey string

const (
	ContextClientIP = "client_ip"

	clientIPKey contextKey = "client_ip"
)

// ClientIPMiddleware extracts the client IP address from the request
// and injects it into the gin and request contexts.
//
// Usage:
//
//	router.Use(middleware.ClientIPMiddleware())
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set(ContextClientIP, clientIP)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), clientIPKey, clientIP))

		log.Debug().
			Str("ip", clientIP).
			Bool("is_private", utils.IsPrivateIP(clientIP)).
			Str("path", c.Request.URL.Path).
			Msg("Client IP extracted")

		c.Next()
	}
}

// GetClientIPFromContext retrieves the client IP from context
// Returns empty string if not found
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey).(string); ok {
		return ip
	}
	return ""
}

// ClientIP returns the IP set by ClientIPMiddleware, or gin's view of it
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextClientIP); ip != "" {
		return ip
	}
	return utils.ExtractClientIP(c)
}
