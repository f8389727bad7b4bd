// Package metrics provides custom Prometheus metrics for the image service components.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ResolverMetrics contains all Prometheus metrics related to image resolution.
type ResolverMetrics struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	StoreLookups   prometheus.Counter
	StoreFailures  prometheus.Counter
	SlotUpgrades   prometheus.Counter
	SourceStatuses *prometheus.CounterVec
	LookupDuration prometheus.Histogram
	registry       *prometheus.Registry
}

// NewResolverMetrics creates a new instance of ResolverMetrics registered on the given registry.
func NewResolverMetrics(registry *prometheus.Registry) (*ResolverMetrics, error) {
	m := &ResolverMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize resolver metrics: %w", err)
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register resolver metrics: %w", err)
	}
	return m, nil
}

func (m *ResolverMetrics) initMetrics() error {
	m.CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_resolver_cache_hits_total",
		Help: "Total number of resolution cache hits.",
	})

	m.CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_resolver_cache_misses_total",
		Help: "Total number of resolution cache misses.",
	})

	m.StoreLookups = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_resolver_store_lookups_total",
		Help: "Total number of metadata store lookups.",
	})

	m.StoreFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_resolver_store_failures_total",
		Help: "Total number of metadata store lookups that failed and fell open.",
	})

	m.SlotUpgrades = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_resolver_slot_upgrades_total",
		Help: "Total number of image slots upgraded to an override URL.",
	})

	m.SourceStatuses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "image_resolver_source_statuses_total",
		Help: "Source validator outcomes by status.",
	}, []string{"status"})

	m.LookupDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "image_resolver_lookup_duration_seconds",
		Help:    "Duration of a full resolution including the store read.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	return nil
}

// IncrementCacheHits increases the cache hit counter by one.
func (m *ResolverMetrics) IncrementCacheHits() {
	m.CacheHits.Inc()
}

// IncrementCacheMisses increases the cache miss counter by one.
func (m *ResolverMetrics) IncrementCacheMisses() {
	m.CacheMisses.Inc()
}

// IncrementStoreLookups increases the store lookup counter by one.
func (m *ResolverMetrics) IncrementStoreLookups() {
	m.StoreLookups.Inc()
}

// IncrementStoreFailures increases the store failure counter by one.
func (m *ResolverMetrics) IncrementStoreFailures() {
	m.StoreFailures.Inc()
}

// IncrementSlotUpgrades increases the slot upgrade counter by one.
func (m *ResolverMetrics) IncrementSlotUpgrades() {
	m.SlotUpgrades.Inc()
}

// IncrementSourceStatus increases the validator outcome counter for a status.
func (m *ResolverMetrics) IncrementSourceStatus(status string) {
	m.SourceStatuses.WithLabelValues(status).Inc()
}

// ObserveLookupDuration records the duration of a resolution in seconds.
func (m *ResolverMetrics) ObserveLookupDuration(durationSeconds float64) {
	m.LookupDuration.Observe(durationSeconds)
}

// Collect implements the prometheus.Collector interface.
func (m *ResolverMetrics) Collect(ch chan<- prometheus.Metric) {
	ch <- m.CacheHits
	ch <- m.CacheMisses
	ch <- m.StoreLookups
	ch <- m.StoreFailures
	ch <- m.SlotUpgrades
	m.SourceStatuses.Collect(ch)
	ch <- m.LookupDuration
}

// Describe implements the prometheus.Collector interface.
func (m *ResolverMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.CacheHits.Desc()
	ch <- m.CacheMisses.Desc()
	ch <- m.StoreLookups.Desc()
	ch <- m.StoreFailures.Desc()
	ch <- m.SlotUpgrades.Desc()
	m.SourceStatuses.Describe(ch)
	ch <- m.LookupDuration.Desc()
}
