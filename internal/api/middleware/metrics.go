package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// Metrics records request counts and latencies per route template.
func Metrics(reg prometheus.Registerer) gin.HandlerFunc {
	factory := promauto.With(reg)
	m := httpMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "basepoint",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "basepoint",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, ctx.Request.Method, strconv.Itoa(ctx.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, ctx.Request.Method).Observe(time.Since(start).Seconds())
	}
}
