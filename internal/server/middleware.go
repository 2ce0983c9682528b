package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"investdash/internal/metrics"
)

// MetricsMiddleware times every request and records it under the registered
// route template. Requests that match no route share one label so probes and
// scanners cannot inflate the metric's cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
