package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"investdash/internal/auth"
	"investdash/internal/logger"
)

// RequestLoggingMiddleware writes one structured line per request. It runs
// ahead of the auth middleware, so by the time the chain has completed the
// session is on the context and the dashboard user can be attached to the
// line for authenticated routes.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		attrs := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if s, ok := auth.GetSession(c); ok {
			attrs = append(attrs, "user_id", s.UserID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		logger.Info("request completed", attrs...)
	}
}
