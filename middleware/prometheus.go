package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/songquanpeng/echobin/monitor"
)

// PrometheusMiddleware records per-request metrics keyed by the matched route
// pattern, not the raw path, to keep label cardinality bounded.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		monitor.ObserveRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
