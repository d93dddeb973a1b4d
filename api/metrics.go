package api

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the REST API
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers the API metrics (singleton pattern)
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "denote",
					Subsystem: "api",
					Name:      "requests_total",
					Help:      "HTTP requests by method, route and status",
				},
				[]string{"method", "route", "status"},
			),
			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "denote",
					Subsystem: "api",
					Name:      "request_duration_seconds",
					Help:      "HTTP request latency",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
		}
	})
	return metrics
}
