package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// StorageMetrics contains all Prometheus metrics related to the object-storage client.
type StorageMetrics struct {
	APIRequests     *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	RateLimitWaits  prometheus.Counter
	registry        *prometheus.Registry
}

// NewStorageMetrics creates a new instance of StorageMetrics registered on the given registry.
func NewStorageMetrics(registry *prometheus.Registry) (*StorageMetrics, error) {
	m := &StorageMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage metrics: %w", err)
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register storage metrics: %w", err)
	}
	return m, nil
}

func (m *StorageMetrics) initMetrics() error {
	m.APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "object_storage_api_requests_total",
		Help: "Storage API requests by operation and result.",
	}, []string{"operation", "result"})

	m.RequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "object_storage_request_duration_seconds",
		Help:    "Duration of storage API requests in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	})

	m.RateLimitWaits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "object_storage_rate_limit_waits_total",
		Help: "Total number of storage requests delayed by the rate limiter.",
	})

	return nil
}

// IncrementAPIRequest increases the request counter for an operation and result.
func (m *StorageMetrics) IncrementAPIRequest(operation, result string) {
	m.APIRequests.WithLabelValues(operation, result).Inc()
}

// ObserveRequestDuration records the duration of a storage API request in seconds.
func (m *StorageMetrics) ObserveRequestDuration(durationSeconds float64) {
	m.RequestDuration.Observe(durationSeconds)
}

// IncrementRateLimitWaits increases the rate limiter wait counter by one.
func (m *StorageMetrics) IncrementRateLimitWaits() {
	m.RateLimitWaits.Inc()
}

// Collect implements the prometheus.Collector interface.
func (m *StorageMetrics) Collect(ch chan<- prometheus.Metric) {
	m.APIRequests.Collect(ch)
	ch <- m.RequestDuration
	ch <- m.RateLimitWaits
}

// Describe implements the prometheus.Collector interface.
func (m *StorageMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.APIRequests.Describe(ch)
	ch <- m.RequestDuration.Desc()
	ch <- m.RateLimitWaits.Desc()
}
