package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/ndthanh/spendlens/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Dev Tools
// ============================================================

var devCategories = []domain.CategoryRef{
	{ID: "cat-food", Name: "Ăn uống", Icon: "🍜"},
	{ID: "cat-transport", Name: "Di chuyển", Icon: "🛵"},
	{ID: "cat-shopping", Name: "Mua sắm", Icon: "🛍"},
	{ID: "cat-bills", Name: "Hóa đơn", Icon: "🧾"},
	{ID: "cat-entertainment", Name: "Giải trí", Icon: "🎮"},
}

var devWallets = []domain.WalletRef{
	{ID: "wallet-cash", Name: "Tiền mặt", Currency: "VND"},
	{ID: "wallet-bank", Name: "Ngân hàng", Currency: "VND"},
}

// DevGenerateTransactions produces a synthetic transaction batch spread over
// the last 90 days, for exercising the analytics engines in development.
// Roughly one in six records is income; a few records deliberately omit the
// category or date to mimic real upstream payloads.
func (s *AnalyticsService) DevGenerateTransactions(ctx context.Context, count int) ([]domain.Transaction, error) {
	_, span := tracer.Start(ctx, "AnalyticsService.DevGenerateTransactions")
	defer span.End()

	if count <= 0 {
		return nil, &domain.ErrValidation{Field: "count", Message: "must be positive"}
	}
	if count > 500 {
		return nil, &domain.ErrValidation{Field: "count", Message: "must be at most 500"}
	}

	now := s.clock()
	txs := make([]domain.Transaction, 0, count)

	for i := 0; i < count; i++ {
		date := now.AddDate(0, 0, -rand.Intn(90)).Add(-time.Duration(rand.Intn(24)) * time.Hour)

		tx := domain.Transaction{
			ID:     uuid.New().String(),
			Type:   domain.TxExpense,
			Amount: domain.Amount(float64(rand.Intn(490)+10) * 1000),
			Date:   &date,
			Wallet: &devWallets[rand.Intn(len(devWallets))],
		}
		if i%6 == 5 {
			tx.Type = domain.TxIncome
			tx.Amount = domain.Amount(float64(rand.Intn(9000)+1000) * 1000)
		}
		if i%11 != 10 {
			tx.Category = &devCategories[rand.Intn(len(devCategories))]
		}
		if i%29 == 28 {
			tx.Date = nil
		}
		txs = append(txs, tx)
	}

	s.logger.Info("DEV: generated synthetic transactions", zap.Int("count", count))
	return txs, nil
}
