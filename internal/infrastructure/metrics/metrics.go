// Package metrics exposes request, cache, circuit breaker and event counters in the Prometheus format.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a dedicated registry so tests can create isolated instances
type Metrics struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	tokensCreated   prometheus.Counter
	eventsPublished *prometheus.CounterVec
}

// New creates the service metrics together with the Go runtime and process collectors
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		tokensCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tokenization_tokens_created_total",
			Help: "Number of new token mappings persisted.",
		}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokenization_events_published_total",
			Help: "Number of token created events by outcome.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.tokensCreated,
		m.eventsPublished,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served request
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// TokenCreated counts a newly persisted mapping
func (m *Metrics) TokenCreated() {
	m.tokensCreated.Inc()
}

// EventPublished counts the outcome of one event delivery
func (m *Metrics) EventPublished(result string) {
	m.eventsPublished.WithLabelValues(result).Inc()
}

// RegisterTokenCache exports the statistics of a token cache
func (m *Metrics) RegisterTokenCache(stats func() tokens.CacheStats) error {
	funcs := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "tokenization_cache_requests_total",
			Help:        "Token cache lookups by result.",
			ConstLabels: prometheus.Labels{"cache": tokens.CacheName, "result": "hit"},
		}, func() float64 { return float64(stats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "tokenization_cache_requests_total",
			Help:        "Token cache lookups by result.",
			ConstLabels: prometheus.Labels{"cache": tokens.CacheName, "result": "miss"},
		}, func() float64 { return float64(stats().Misses) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "tokenization_cache_evictions_total",
			Help:        "Token cache entries evicted by size or expiry.",
			ConstLabels: prometheus.Labels{"cache": tokens.CacheName},
		}, func() float64 { return float64(stats().Evictions) }),
	}

	for _, c := range funcs {
		if err := m.registry.Register(c); err != nil {
			return fmt.Errorf("failed to register cache collector: %w", err)
		}
	}
	return nil
}

// RegisterCircuitBreakerState exports the breaker state as 0 (closed), 1 (half-open) or 2 (open)
func (m *Metrics) RegisterCircuitBreakerState(name string, state func() float64) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "tokenization_circuit_breaker_state",
		Help:        "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
		ConstLabels: prometheus.Labels{"name": name},
	}, state)

	if err := m.registry.Register(gauge); err != nil {
		return fmt.Errorf("failed to register circuit breaker collector: %w", err)
	}
	return nil
}
