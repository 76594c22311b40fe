package spapi

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus metrics for outbound SP-API requests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	retries   prometheus.Counter
	durations *prometheus.HistogramVec
}

// NewMetrics creates and registers the client metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spapi",
			Name:      "requests_total",
			Help:      "SP-API requests by resource group and HTTP status.",
		}, []string{"api", "status"}),

		retries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "spapi",
			Name:      "retries_total",
			Help:      "Request attempts beyond the first.",
		}),

		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spapi",
			Name:      "request_duration_seconds",
			Help:      "SP-API request duration by resource group.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"api"}),
	}
}

// observeRequest records one completed attempt.
func (m *Metrics) observeRequest(api string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(api, strconv.Itoa(status)).Inc()
	m.durations.WithLabelValues(api).Observe(elapsed.Seconds())
}

// observeRetry records a retried attempt.
func (m *Metrics) observeRetry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}
