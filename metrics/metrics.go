// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notionkeep_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notionkeep_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	UpstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notionkeep_upstream_calls_total",
			Help: "Generation calls by model and outcome",
		},
		[]string{"model", "outcome"},
	)
	UpstreamCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notionkeep_upstream_call_duration_seconds",
			Help:    "Generation call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"model"},
	)
	ChatResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notionkeep_chat_results_total",
			Help: "Chat answers by whether the fallback synthesizer produced them",
		},
		[]string{"fallback"},
	)
	ChatBackoffsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notionkeep_chat_backoffs_total",
			Help: "Global back-off waits after every model hit its quota",
		},
	)
)

// Init registers every collector with the default registry. Call once from main.
func Init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		UpstreamCallsTotal,
		UpstreamCallDuration,
		ChatResultsTotal,
		ChatBackoffsTotal,
	)
}

// ObserveUpstreamCall records one generation call.
func ObserveUpstreamCall(model, outcome string, d time.Duration) {
	UpstreamCallsTotal.WithLabelValues(model, outcome).Inc()
	UpstreamCallDuration.WithLabelValues(model).Observe(d.Seconds())
}

// ObserveChatResult records the terminal result of one chat orchestration.
func ObserveChatResult(usedFallback bool) {
	ChatResultsTotal.WithLabelValues(strconv.FormatBool(usedFallback)).Inc()
}

// Middleware records request count and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
		HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
