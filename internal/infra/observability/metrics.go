package observability

import (
	"time"

	"github.com/ndthanh/spendlens/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the analytics service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	computeDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	insightsEmitted *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		computeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spendlens_compute_duration_seconds",
				Help:    "Duration of analytics operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendlens_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendlens_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendlens_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		insightsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendlens_insights_emitted_total",
				Help: "Total insight records emitted, by type.",
			},
			[]string{"type"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendlens_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordComputeDuration records the duration of an analytics operation.
func (m *Metrics) RecordComputeDuration(operation string, d time.Duration) {
	m.computeDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordInsights counts emitted insight records by type.
func (m *Metrics) RecordInsights(insights []domain.Insight) {
	for _, in := range insights {
		m.insightsEmitted.WithLabelValues(string(in.Type)).Inc()
	}
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// GetAnalyticsSnapshot returns a snapshot of service metrics suitable for
// the GET /v1/metrics/analytics endpoint.
func (m *Metrics) GetAnalyticsSnapshot() *domain.AnalyticsMetrics {
	totalRequests := getCounterValue(m.requestsTotal, "success") +
		getCounterValue(m.requestsTotal, "error")
	errorCount := getCounterValue(m.requestsTotal, "error")
	cacheHits := getCounterValue(m.cacheHits, "insights")
	cacheMisses := getCounterValue(m.cacheMisses, "insights")

	errorRate := float64(0)
	cacheHitRate := float64(0)
	if totalRequests > 0 {
		errorRate = errorCount / totalRequests
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	byType := make(map[string]int64)
	for _, t := range []domain.InsightType{
		domain.InsightTrend, domain.InsightForecast, domain.InsightAlert,
		domain.InsightFocus, domain.InsightAction, domain.InsightBasic,
	} {
		if v := getCounterValue(m.insightsEmitted, string(t)); v > 0 {
			byType[string(t)] = int64(v)
		}
	}

	extErrors := make(map[string]int64)
	for _, svc := range []string{"transactions", "insights"} {
		if v := getCounterValue(m.externalErrors, svc); v > 0 {
			extErrors[svc] = int64(v)
		}
	}

	return &domain.AnalyticsMetrics{
		TotalRequests:  int64(totalRequests),
		ErrorRate:      errorRate,
		CacheHitRate:   cacheHitRate,
		InsightsByType: byType,
		ExternalErrors: extErrors,
		Period:         "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
