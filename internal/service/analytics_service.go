// Package service provides the business logic layer: it fetches transaction
// snapshots from the upstream APIs, runs the analytics engines over them
// and applies the server/local insight merge policy.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ndthanh/spendlens/internal/analytics"
	"github.com/ndthanh/spendlens/internal/domain"
	"github.com/ndthanh/spendlens/internal/infra/observability"
	"github.com/ndthanh/spendlens/internal/infra/resilience"
	"github.com/ndthanh/spendlens/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/analytics")

// AnalyticsService orchestrates transaction fetches and insight
// computation. All heavy lifting is delegated to the pure functions in the
// analytics package; the service adds fetching, caching, fallback policy
// and observability.
type AnalyticsService struct {
	transactions port.TransactionsFetcher
	insights     port.InsightsFetcher
	cache        port.Cache[*domain.InsightReport]
	bulkhead     *resilience.Bulkhead
	metrics      *observability.Metrics
	logger       *zap.Logger
	clock        func() time.Time
}

// NewAnalyticsService creates the analytics service with all dependencies
// injected. insights may be nil when no server-side insight API is
// configured; the local heuristics then always apply.
func NewAnalyticsService(
	transactions port.TransactionsFetcher,
	insights port.InsightsFetcher,
	cache port.Cache[*domain.InsightReport],
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		transactions: transactions,
		insights:     insights,
		cache:        cache,
		bulkhead:     bulkhead,
		metrics:      metrics,
		logger:       logger,
		clock:        time.Now,
	}
}

// WithClock replaces the wall clock. Tests use it to anchor the "current
// month" deterministically.
func (s *AnalyticsService) WithClock(clock func() time.Time) *AnalyticsService {
	s.clock = clock
	return s
}

// GetBuckets fetches the user's transactions and groups them into time
// buckets of the requested granularity.
func (s *AnalyticsService) GetBuckets(ctx context.Context, userID, granularity string) ([]domain.TimeBucket, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.GetBuckets")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("granularity", granularity))

	g, err := domain.ParseGranularity(granularity)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.GetTransactions(ctx, userID)
	if err != nil {
		s.metrics.IncrExternalError("transactions")
		return nil, fmt.Errorf("transactions fetch: %w", err)
	}

	start := time.Now()
	buckets := analytics.Bucket(txs, g)
	s.metrics.RecordComputeDuration("bucket", time.Since(start))

	return buckets, nil
}

// GetInsights computes the full insight report for a user. Transactions and
// the optional server insight set are fetched concurrently; when the server
// returns a non-empty aiItems list it wins verbatim, otherwise the local
// basic and detailed heuristics are merged. The trend chart series is
// always computed locally, whatever the insight source.
func (s *AnalyticsService) GetInsights(ctx context.Context, userID string) (*domain.InsightReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "AnalyticsService.GetInsights")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	cacheKey := fmt.Sprintf("insights:%s", userID)
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.metrics.IncrCacheHit("insights")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("insights")

	var (
		txs    []domain.Transaction
		server *domain.ServerInsightResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.transactions.GetTransactions(gCtx, userID)
		if err != nil {
			s.logger.Error("failed to fetch transactions",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			s.metrics.IncrExternalError("transactions")
			return fmt.Errorf("transactions fetch: %w", err)
		}
		txs = t
		return nil
	})

	g.Go(func() error {
		if s.insights == nil {
			return nil
		}
		resp, err := s.insights.GetServerInsights(gCtx, userID)
		if err != nil {
			// The server path is best-effort; the local heuristics cover it.
			s.logger.Warn("server insight fetch failed, using local heuristics",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			s.metrics.IncrExternalError("insights")
			return nil
		}
		server = resp
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.bulkhead.Release()

	start := time.Now()
	now := s.clock()

	summary := analytics.ComputeInsights(txs, now)

	var report *domain.InsightReport
	if server != nil && len(server.AIItems) > 0 {
		report = &domain.InsightReport{
			Source:   domain.InsightSourceServer,
			Insights: analytics.NormalizeServerItems(server.AIItems),
			LineData: summary.LineData,
			RawData:  summary.Raw,
		}
	} else {
		detailed := analytics.DetailedSuggestions(txs, summary.Raw, now)
		report = &domain.InsightReport{
			Source:   domain.InsightSourceLocal,
			Insights: analytics.MergeInsights(summary.Insights, detailed),
			LineData: summary.LineData,
			RawData:  summary.Raw,
		}
	}

	s.metrics.RecordComputeDuration("insights", time.Since(start))
	s.metrics.RecordInsights(report.Insights)
	s.cache.Set(cacheKey, report)

	s.logger.Info("insight report computed",
		zap.String("user_id", userID),
		zap.String("source", string(report.Source)),
		zap.Int("insight_count", len(report.Insights)),
		zap.Int("transaction_count", len(txs)),
	)

	return report, nil
}

// GetCategoryChart builds the current-month category breakdown, optionally
// restricted to a single wallet.
func (s *AnalyticsService) GetCategoryChart(ctx context.Context, userID, walletID string) (*domain.CategoryChart, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.GetCategoryChart")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	txs, err := s.transactions.GetTransactions(ctx, userID)
	if err != nil {
		s.metrics.IncrExternalError("transactions")
		return nil, fmt.Errorf("transactions fetch: %w", err)
	}

	start := time.Now()
	chart := analytics.PrepareCategoryChart(txs, s.clock(), walletID)
	s.metrics.RecordComputeDuration("category_chart", time.Since(start))

	return &chart, nil
}

// GetCashflowChart builds the 30-day income/expense column series.
func (s *AnalyticsService) GetCashflowChart(ctx context.Context, userID string) (*domain.CashflowChart, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.GetCashflowChart")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	txs, err := s.transactions.GetTransactions(ctx, userID)
	if err != nil {
		s.metrics.IncrExternalError("transactions")
		return nil, fmt.Errorf("transactions fetch: %w", err)
	}

	start := time.Now()
	chart := analytics.PrepareCashflowChart(txs, s.clock())
	s.metrics.RecordComputeDuration("cashflow_chart", time.Since(start))

	return &chart, nil
}

// InvalidateInsights drops the cached report for a user, forcing the next
// GetInsights call to recompute from a fresh snapshot.
func (s *AnalyticsService) InvalidateInsights(userID string) {
	s.cache.Delete(fmt.Sprintf("insights:%s", userID))
}
