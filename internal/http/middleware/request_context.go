package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/dsaquest-backend/internal/observability"
)

// AttachRequestContext records in-flight count and latency for every request.
// It is a passthrough when metrics are disabled.
func AttachRequestContext(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
