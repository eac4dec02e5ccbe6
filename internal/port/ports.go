// Package port declares the interfaces between the service layer and its
// collaborators. Services accept these interfaces; infra packages return
// concrete implementations.
package port

import (
	"context"

	"github.com/ndthanh/spendlens/internal/domain"
)

// TransactionsFetcher retrieves the transaction snapshot for a user.
type TransactionsFetcher interface {
	GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// InsightsFetcher retrieves the optional server-computed insight set.
// Implementations may fail; callers must degrade to the local heuristics.
type InsightsFetcher interface {
	GetServerInsights(ctx context.Context, userID string) (*domain.ServerInsightResponse, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
