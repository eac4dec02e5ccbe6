package domain

// AnalyticsMetrics is a snapshot of service counters for the
// GET /v1/metrics/analytics endpoint.
type AnalyticsMetrics struct {
	TotalRequests  int64            `json:"total_requests"`
	ErrorRate      float64          `json:"error_rate"`
	CacheHitRate   float64          `json:"cache_hit_rate"`
	InsightsByType map[string]int64 `json:"insights_by_type"`
	ExternalErrors map[string]int64 `json:"external_errors"`
	Period         string           `json:"period"`
}
