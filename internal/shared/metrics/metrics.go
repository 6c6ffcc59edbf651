package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Provider metrics
	AIRequestsTotal   *prometheus.CounterVec
	AIRequestDuration *prometheus.HistogramVec
	AIProviderHealth  *prometheus.GaugeVec

	// Entitlement and ledger metrics
	GenerationsTotal   *prometheus.CounterVec
	GateDecisionsTotal *prometheus.CounterVec
	UsageCommitsTotal  *prometheus.CounterVec
	LikeTogglesTotal   *prometheus.CounterVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// New creates a Metrics instance registered on its own registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "quickai"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		AIRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ai",
				Name:      "requests_total",
				Help:      "Total number of generative provider calls",
			},
			[]string{"provider", "operation", "status"},
		),
		AIRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ai",
				Name:      "request_duration_seconds",
				Help:      "Generative provider call duration in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"provider", "operation"},
		),
		AIProviderHealth: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "ai",
				Name:      "provider_health",
				Help:      "Provider circuit state (1=closed, 0.5=half-open, 0=open)",
			},
			[]string{"provider"},
		),

		GenerationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "total",
				Help:      "Generation requests by capability and outcome",
			},
			[]string{"capability", "outcome"},
		),
		GateDecisionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quota",
				Name:      "decisions_total",
				Help:      "Quota gate decisions by capability and result",
			},
			[]string{"capability", "result"},
		),
		UsageCommitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quota",
				Name:      "commits_total",
				Help:      "Free usage commits by result",
			},
			[]string{"result"},
		),
		LikeTogglesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "creation",
				Name:      "like_toggles_total",
				Help:      "Like toggles by resulting state",
			},
			[]string{"result"},
		),

		CacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAIRequest records a provider call.
func (m *Metrics) RecordAIRequest(provider, operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.AIRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	m.AIRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// SetProviderHealth sets the circuit state gauge of a provider.
func (m *Metrics) SetProviderHealth(provider string, value float64) {
	if m == nil {
		return
	}
	m.AIProviderHealth.WithLabelValues(provider).Set(value)
}

// RecordGeneration records the final outcome of one generation request.
func (m *Metrics) RecordGeneration(capability, outcome string) {
	if m == nil {
		return
	}
	m.GenerationsTotal.WithLabelValues(capability, outcome).Inc()
}

// RecordGateDecision records a quota gate decision.
func (m *Metrics) RecordGateDecision(capability, result string) {
	if m == nil {
		return
	}
	m.GateDecisionsTotal.WithLabelValues(capability, result).Inc()
}

// RecordUsageCommit records a usage commit attempt.
func (m *Metrics) RecordUsageCommit(result string) {
	if m == nil {
		return
	}
	m.UsageCommitsTotal.WithLabelValues(result).Inc()
}

// RecordLikeToggle records the state a like toggle produced.
func (m *Metrics) RecordLikeToggle(liked bool) {
	if m == nil {
		return
	}
	m.LikeTogglesTotal.WithLabelValues(strconv.FormatBool(liked)).Inc()
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cache string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
