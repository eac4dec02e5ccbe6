package handler

import (
	"net/http"
	"time"

	"github.com/ndthanh/spendlens/internal/infra/observability"
	"github.com/ndthanh/spendlens/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc *service.AnalyticsService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 📊 Analytics
		// =============================================
		r.Get("/users/{userId}/buckets", bucketsHandler(svc, metrics, logger))
		r.Get("/users/{userId}/insights", insightsHandler(svc, metrics, logger))
		r.Get("/users/{userId}/charts/categories", categoryChartHandler(svc, metrics, logger))
		r.Get("/users/{userId}/charts/cashflow", cashflowChartHandler(svc, metrics, logger))

		// =============================================
		// 📈 Service metrics snapshot
		// =============================================
		r.Get("/metrics/analytics", analyticsMetricsHandler(metrics, logger))

		// =============================================
		// 🛠 Dev Tools (testing helpers)
		// =============================================
		r.Post("/dev/generate-transactions", devGenerateTransactionsHandler(svc, logger))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
