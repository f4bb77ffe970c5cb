package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bedrock_bridge_http_requests_total",
		Help: "Count of handled HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bedrock_bridge_http_request_duration_seconds",
		Help:    "Latency of handled HTTP requests; streaming requests count until stream end.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	}, []string{"method", "route"})
)

// Prometheus records per-request counters and latency, keyed by the matched
// route template so path-embedded model ids do not explode the cardinality.
func Prometheus() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(
			c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
