package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndthanh/spendlens/internal/config"
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

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("transactions_api", cfg.TransactionsAPIURL),
		zap.String("insights_api", cfg.InsightsAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "spendlens")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	insightCache := cache.New[*domain.InsightReport](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("external-apis")
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	transactionsClient := client.NewTransactionsClient(httpClient, cfg.TransactionsAPIURL, cb, resilienceCfg)

	var insightsClient port.InsightsFetcher
	if cfg.InsightsAPIURL != "" {
		insightsClient = client.NewInsightsClient(httpClient, cfg.InsightsAPIURL, cb, resilienceCfg)
		logger.Info("server-side insight API enabled", zap.String("url", cfg.InsightsAPIURL))
	} else {
		logger.Info("no server-side insight API configured, local heuristics only")
	}

	// --- Services ---
	analyticsSvc := service.NewAnalyticsService(
		transactionsClient,
		insightsClient,
		insightCache,
		bulkhead,
		metrics,
		logger,
	)

	// --- Router ---
	router := handler.NewRouter(analyticsSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
