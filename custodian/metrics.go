package custodian

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the custodian loop
type Metrics struct {
	Cycles          *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	DispatchLatency *prometheus.HistogramVec
	Processed       prometheus.Gauge
	PendingRetries  prometheus.Gauge
	LastCycle       prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers the custodian metrics (singleton pattern)
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			Cycles: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "denote",
					Subsystem: "custodian",
					Name:      "cycles_total",
					Help:      "Polling cycles by outcome",
				},
				[]string{"status"},
			),
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "denote",
					Subsystem: "custodian",
					Name:      "requests_total",
					Help:      "Dispatched requests by kind and outcome",
				},
				[]string{"kind", "status"},
			),
			DispatchLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "denote",
					Subsystem: "custodian",
					Name:      "dispatch_duration_seconds",
					Help:      "Time from classification to ledger accept",
					Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
				},
				[]string{"kind"},
			),
			Processed: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "denote",
					Subsystem: "custodian",
					Name:      "processed_requests",
					Help:      "Size of the processed set",
				},
			),
			PendingRetries: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "denote",
					Subsystem: "custodian",
					Name:      "pending_retries",
					Help:      "Failed requests waiting for another attempt",
				},
			),
			LastCycle: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "denote",
					Subsystem: "custodian",
					Name:      "last_cycle_timestamp_seconds",
					Help:      "Unix time of the last completed cycle",
				},
			),
		}
	})
	return metrics
}
