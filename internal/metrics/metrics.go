// Package metrics exposes the Prometheus instruments of the content service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "naanews"

// Metrics holds every naanews instrument. A nil *Metrics is valid and records
// nothing, so components can run without a registry.
type Metrics struct {
	// Cache metrics
	CacheHits          *prometheus.CounterVec
	CacheMisses        *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec
	CacheDiscarded     *prometheus.CounterVec

	// Loader metrics
	LoaderFallbacks *prometheus.CounterVec
	LoaderDuration  *prometheus.HistogramVec

	// Store metrics
	StoreCircuitState prometheus.Gauge

	// Fan-out metrics
	BroadcastsSent     prometheus.Counter
	BroadcastsReceived prometheus.Counter
	EventsPublished    *prometheus.CounterVec
}

// New registers the instruments with reg. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}
	initCacheMetrics(factory, m)
	initLoaderMetrics(factory, m)
	initFanOutMetrics(factory, m)
	return m
}

func initCacheMetrics(f promauto.Factory, m *Metrics) {
	m.CacheHits = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Cached loader calls served from a fresh entry",
	}, []string{"loader"})

	m.CacheMisses = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Cached loader calls that ran the underlying loader",
	}, []string{"loader"})

	m.CacheInvalidations = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Tag invalidations applied to the cache",
	}, []string{"tag"})

	m.CacheDiscarded = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_discarded_loads_total",
		Help:      "Loads finished after an invalidation of their tag and not stored",
	}, []string{"tag"})
}

func initLoaderMetrics(f promauto.Factory, m *Metrics) {
	m.LoaderFallbacks = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loader_fallbacks_total",
		Help:      "Loads served from seed data, by entity and reason",
	}, []string{"entity", "reason"})

	m.LoaderDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "loader_duration_seconds",
		Help:      "Time to produce a loader result, by entity and source",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	}, []string{"entity", "source"})

	m.StoreCircuitState = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_circuit_state",
		Help:      "Document store circuit breaker state (0 closed, 1 open, 2 half-open)",
	})
}

func initFanOutMetrics(f promauto.Factory, m *Metrics) {
	m.BroadcastsSent = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invalidation_broadcasts_sent_total",
		Help:      "Invalidation tags published to other processes",
	})

	m.BroadcastsReceived = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invalidation_broadcasts_received_total",
		Help:      "Invalidation tags received from other processes",
	})

	m.EventsPublished = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_events_published_total",
		Help:      "Content mutation events appended to the event stream",
	}, []string{"entity", "action"})
}

func (m *Metrics) CacheHit(loader string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(loader).Inc()
}

func (m *Metrics) CacheMiss(loader string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(loader).Inc()
}

func (m *Metrics) Invalidated(tag string) {
	if m == nil {
		return
	}
	m.CacheInvalidations.WithLabelValues(tag).Inc()
}

func (m *Metrics) LoadDiscarded(tag string) {
	if m == nil {
		return
	}
	m.CacheDiscarded.WithLabelValues(tag).Inc()
}

// Fallback records a load served from seed data.
func (m *Metrics) Fallback(entity, reason string) {
	if m == nil {
		return
	}
	m.LoaderFallbacks.WithLabelValues(entity, reason).Inc()
}

// ObserveLoad records how long a load took and whether the store or seed served it.
func (m *Metrics) ObserveLoad(entity, source string, d time.Duration) {
	if m == nil {
		return
	}
	m.LoaderDuration.WithLabelValues(entity, source).Observe(d.Seconds())
}

func (m *Metrics) SetCircuitState(state int) {
	if m == nil {
		return
	}
	m.StoreCircuitState.Set(float64(state))
}

func (m *Metrics) BroadcastSent() {
	if m == nil {
		return
	}
	m.BroadcastsSent.Inc()
}

func (m *Metrics) BroadcastReceived() {
	if m == nil {
		return
	}
	m.BroadcastsReceived.Inc()
}

func (m *Metrics) EventPublished(entity, action string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(entity, action).Inc()
}
