package integration_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndthanh/spendlens/internal/domain"
	"github.com/ndthanh/spendlens/internal/handler"
	"github.com/ndthanh/spendlens/internal/infra/cache"
	"github.com/ndthanh/spendlens/internal/infra/client"
	"github.com/ndthanh/spendlens/internal/infra/observability"
	"github.com/ndthanh/spendlens/internal/infra/resilience"
	"github.com/ndthanh/spendlens/internal/port"
	"github.com/ndthanh/spendlens/internal/service"

	"go.uber.org/zap"
)

func testConfig() resilience.Config {
	return resilience.Config{
		MaxRetries:     1,
		InitialBackoff: 2 * time.Millisecond,
		MaxConcurrency: 4,
	}
}

// newStack wires clients, service and router against the given upstream URLs,
// mirroring the production wiring in cmd/spendlens.
func newStack(t *testing.T, transactionsURL, insightsURL string) http.Handler {
	t.Helper()

	cfg := testConfig()
	cb := resilience.NewCircuitBreaker("integration-" + t.Name())
	httpClient := &http.Client{Timeout: 2 * time.Second}

	txClient := client.NewTransactionsClient(httpClient, transactionsURL, cb, cfg)

	var inClient port.InsightsFetcher
	if insightsURL != "" {
		inClient = client.NewInsightsClient(httpClient, insightsURL, cb, cfg)
	}

	metrics := observability.NewMetrics()
	svc := service.NewAnalyticsService(
		txClient,
		inClient,
		cache.New[*domain.InsightReport](time.Minute),
		resilience.NewBulkhead(cfg.MaxConcurrency),
		metrics,
		zap.NewNop(),
	)
	return handler.NewRouter(svc, metrics, zap.NewNop())
}

func mockTransactionsServer(t *testing.T) *httptest.Server {
	t.Helper()
	now := time.Now()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		txs := []map[string]any{
			{
				"id":       "tx-1",
				"type":     "expense",
				"amount":   150000,
				"date":     now.AddDate(0, 0, -1).Format(time.RFC3339),
				"category": map[string]string{"id": "c1", "name": "Ăn uống"},
				"wallet":   map[string]string{"id": "w1", "name": "Tiền mặt"},
			},
			{
				// Amount arrives as a string; decoding must coerce it.
				"id":     "tx-2",
				"type":   "expense",
				"amount": "50000",
				"date":   now.AddDate(0, -1, 0).Format(time.RFC3339),
			},
			{
				"id":     "tx-3",
				"type":   "income",
				"amount": 5000000,
				"date":   now.AddDate(0, 0, -2).Format(time.RFC3339),
			},
			{
				// Malformed amount and missing date; must not break the batch.
				"id":     "tx-4",
				"type":   "expense",
				"amount": "not-a-number",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(txs)
	}))
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIntegration_ServerInsightsWin(t *testing.T) {
	txServer := mockTransactionsServer(t)
	defer txServer.Close()

	insightServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := domain.ServerInsightResponse{
			AIItems: []domain.ServerInsightItem{
				{Type: "trend", Text: "Chi tiêu của bạn đang tăng nhẹ."},
				{Type: "action", Text: "Hãy đặt hạn mức cho nhóm Ăn uống."},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer insightServer.Close()

	router := newStack(t, txServer.URL, insightServer.URL)

	rec := get(t, router, "/v1/users/user-1/insights")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report domain.InsightReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Source != domain.InsightSourceServer {
		t.Errorf("expected server source, got %s", report.Source)
	}
	if len(report.Insights) != 2 {
		t.Errorf("expected the 2 server insights, got %d", len(report.Insights))
	}
	if len(report.LineData.Labels) != 3 {
		t.Errorf("trend line stays locally computed, got %v", report.LineData.Labels)
	}
}

func TestIntegration_LocalFallbackWhenInsightAPIFails(t *testing.T) {
	txServer := mockTransactionsServer(t)
	defer txServer.Close()

	insightServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer insightServer.Close()

	router := newStack(t, txServer.URL, insightServer.URL)

	rec := get(t, router, "/v1/users/user-1/insights")
	if rec.Code != http.StatusOK {
		t.Fatalf("insight API failure must not fail the request, got %d: %s", rec.Code, rec.Body.String())
	}

	var report domain.InsightReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Source != domain.InsightSourceLocal {
		t.Errorf("expected local fallback, got %s", report.Source)
	}
	if len(report.Insights) == 0 {
		t.Error("expected heuristic insights from the transaction data")
	}
}

func TestIntegration_BucketsAndCharts(t *testing.T) {
	txServer := mockTransactionsServer(t)
	defer txServer.Close()

	router := newStack(t, txServer.URL, "")

	rec := get(t, router, "/v1/users/user-1/buckets?granularity=month")
	if rec.Code != http.StatusOK {
		t.Fatalf("buckets: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var buckets []domain.TimeBucket
	if err := json.Unmarshal(rec.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(buckets) == 0 {
		t.Fatal("expected at least one bucket")
	}
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	// tx-4 has no date and is excluded.
	if total != 3 {
		t.Errorf("expected 3 bucketed transactions, got %d", total)
	}

	rec = get(t, router, "/v1/users/user-1/charts/cashflow")
	if rec.Code != http.StatusOK {
		t.Fatalf("cashflow: expected 200, got %d", rec.Code)
	}
	var cashflow domain.CashflowChart
	if err := json.Unmarshal(rec.Body.Bytes(), &cashflow); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(cashflow.Labels) != 31 {
		t.Errorf("expected 31 cashflow points, got %d", len(cashflow.Labels))
	}

	rec = get(t, router, "/v1/users/user-1/charts/categories")
	if rec.Code != http.StatusOK {
		t.Fatalf("categories: expected 200, got %d", rec.Code)
	}
}

func TestIntegration_UpstreamNotFound(t *testing.T) {
	txServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer txServer.Close()

	router := newStack(t, txServer.URL, "")

	rec := get(t, router, "/v1/users/missing/buckets")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}
