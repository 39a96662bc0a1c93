package middleware

import (
	"strconv"
	"time"

	"civic-sense/internal/metrics"

	"github.com/gin-gonic/gin"
)

// staticRoute labels requests that fell through to the static file server.
const staticRoute = "static"

func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = staticRoute
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
