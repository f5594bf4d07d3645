// Package metrics provides observability for the directory engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	// Overall resolution latency.
	ResolveLatency prometheus.Histogram

	// Sub-lookup latency by source ("regulation", "incentives").
	LookupLatency *prometheus.HistogramVec

	// Cache outcomes by operation and result ("hit", "miss", "bypass").
	CacheOutcome *prometheus.CounterVec

	// Store failures by query.
	StoreErrors *prometheus.CounterVec
}

// New registers and returns the engine's metrics.
func New() *Metrics {
	return &Metrics{
		ResolveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "watershed_resolve_duration_seconds",
			Help:    "Duration of full location resolution including sub-lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		LookupLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "watershed_lookup_duration_seconds",
			Help:    "Duration of resolution sub-lookups by source",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"source"}),

		CacheOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "watershed_cache_outcomes_total",
			Help: "Result cache outcomes by operation",
		}, []string{"operation", "outcome"}),

		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "watershed_store_errors_total",
			Help: "Regulation store failures by query",
		}, []string{"query"}),
	}
}

// ObserveResolveLatency records a full resolution duration.
func (m *Metrics) ObserveResolveLatency(d time.Duration) {
	if m != nil {
		m.ResolveLatency.Observe(d.Seconds())
	}
}

// ObserveLookupLatency records a sub-lookup duration for a source.
func (m *Metrics) ObserveLookupLatency(source string, d time.Duration) {
	if m != nil {
		m.LookupLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementCacheOutcome records a cache hit, miss, or bypass.
func (m *Metrics) IncrementCacheOutcome(operation, outcome string) {
	if m != nil {
		m.CacheOutcome.WithLabelValues(operation, outcome).Inc()
	}
}

// IncrementStoreError records a store failure.
func (m *Metrics) IncrementStoreError(query string) {
	if m != nil {
		m.StoreErrors.WithLabelValues(query).Inc()
	}
}
