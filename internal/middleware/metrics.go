package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"nr6/internal/metrics"
)

// Metrics records request counts and latency under the matched route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
