// Package metrics exposes Prometheus collectors for the function runtime.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failure stages reported by FailuresTotal.
const (
	StageEvent   = "event"
	StageContext = "context"
	StageHandler = "handler"
	StageFormat  = "format"
	StageWrite   = "write"
)

var (
	// RequestsTotal counts requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "function_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "function_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// FailuresTotal counts requests that failed, by pipeline stage.
	FailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "function_failures_total",
			Help: "Failed requests by stage",
		},
		[]string{"stage"},
	)

	// FileResponsesTotal counts file-mode responses by disposition.
	FileResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "function_file_responses_total",
			Help: "File responses",
		},
		[]string{"disposition"},
	)
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RequestsTotal,
		RequestDuration,
		FailuresTotal,
		FileResponsesTotal,
	}
}

// Register adds the collectors to reg. Registering twice is not an error.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// Middleware records RequestsTotal and RequestDuration for every request.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := strconv.Itoa(c.Writer.Status()/100) + "xx"
		RequestsTotal.WithLabelValues(c.Request.Method, status).Inc()
		RequestDuration.WithLabelValues(c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
