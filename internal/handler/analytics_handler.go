package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ndthanh/spendlens/internal/domain"
	"github.com/ndthanh/spendlens/internal/infra/observability"
	"github.com/ndthanh/spendlens/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Analytics endpoints
// ============================================================

func bucketsHandler(svc *service.AnalyticsService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/buckets")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		granularity := r.URL.Query().Get("granularity")
		if granularity == "" {
			granularity = string(domain.GranularityDay)
		}

		buckets, err := svc.GetBuckets(ctx, userID, granularity)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}
		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, buckets)
	}
}

func insightsHandler(svc *service.AnalyticsService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/insights")
		defer span.End()

		userID := chi.URLParam(r, "userId")

		report, err := svc.GetInsights(ctx, userID)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}
		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, report)
	}
}

func categoryChartHandler(svc *service.AnalyticsService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/charts/categories")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		walletID := r.URL.Query().Get("wallet")

		chart, err := svc.GetCategoryChart(ctx, userID, walletID)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}
		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, chart)
	}
}

func cashflowChartHandler(svc *service.AnalyticsService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/charts/cashflow")
		defer span.End()

		userID := chi.URLParam(r, "userId")

		chart, err := svc.GetCashflowChart(ctx, userID)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}
		metrics.IncrRequest("success")
		writeJSON(w, http.StatusOK, chart)
	}
}

func analyticsMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/metrics/analytics")
		defer span.End()

		writeJSON(w, http.StatusOK, metrics.GetAnalyticsSnapshot())
	}
}

// ============================================================
// 🛠 Dev Tools (testing helpers)
// ============================================================

type devGenerateRequest struct {
	Count int `json:"count"`
}

func devGenerateTransactionsHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dev/generate-transactions")
		defer span.End()

		req := devGenerateRequest{Count: 50}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		txs, err := svc.DevGenerateTransactions(ctx, req.Count)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, txs)
	}
}
