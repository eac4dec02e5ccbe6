package analytics

import (
	"math"
	"time"

	"github.com/ndthanh/spendlens/internal/domain"
)

// palette is the fixed color cycle for category series. Colors are assigned
// by category discovery order within a single computation, not by category
// identity.
var palette = []string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF",
	"#FF9F40", "#66BB6A", "#EC407A", "#26C6DA", "#8D6E63",
}

// PrepareCategoryChart builds the current-month category breakdown, split
// by transaction type. walletID, when non-empty, restricts the series to a
// single wallet. Uncategorized transactions fall under the shared
// "other" label.
func PrepareCategoryChart(transactions []domain.Transaction, now time.Time, walletID string) domain.CategoryChart {
	expense := newCategorySeries()
	income := newCategorySeries()

	for _, tx := range transactions {
		if tx.Date == nil {
			continue
		}
		if tx.Date.Year() != now.Year() || tx.Date.Month() != now.Month() {
			continue
		}
		if walletID != "" && (tx.Wallet == nil || tx.Wallet.ID != walletID) {
			continue
		}
		switch tx.Type {
		case domain.TxExpense:
			expense.add(tx.CategoryName(), tx.Amount.Value())
		case domain.TxIncome:
			income.add(tx.CategoryName(), tx.Amount.Value())
		}
	}

	return domain.CategoryChart{
		Expense: expense.series(),
		Income:  income.series(),
	}
}

// PrepareCashflowChart builds the fixed 31-point income/expense column
// chart for the window today-30d .. today, anchored to now's local date.
// Expense values are negated for display; the overall percent change is
// (income-expense)/income*100, guarded against a zero denominator.
func PrepareCashflowChart(transactions []domain.Transaction, now time.Time) domain.CashflowChart {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	const points = 31
	labels := make([]string, points)
	index := make(map[string]int, points)
	for i := 0; i < points; i++ {
		day := today.AddDate(0, 0, i-(points-1))
		labels[i] = day.Format("2006-01-02")
		index[labels[i]] = i
	}

	income := make([]float64, points)
	expense := make([]float64, points)
	var totalIncome, totalExpense float64

	for _, tx := range transactions {
		if tx.Date == nil {
			continue
		}
		i, ok := index[tx.Date.Format("2006-01-02")]
		if !ok {
			continue
		}
		amt := tx.Amount.Value()
		switch tx.Type {
		case domain.TxIncome:
			income[i] += amt
			totalIncome += amt
		case domain.TxExpense:
			expense[i] -= amt
			totalExpense += amt
		}
	}

	pctChange := 0.0
	if totalIncome > 0 {
		pctChange = (totalIncome - totalExpense) / totalIncome * 100
	}

	return domain.CashflowChart{
		Labels:        labels,
		Income:        income,
		Expense:       expense,
		PercentChange: pctChange,
	}
}

// TrendLine turns the three month windows into the trend chart series, one
// point per window, oldest first.
func TrendLine(raw domain.RawData) domain.TrendSeries {
	labels := make([]string, 0, len(raw.Windows))
	values := make([]float64, 0, len(raw.Windows))
	for _, w := range raw.Windows {
		labels = append(labels, w.Label)
		values = append(values, math.Round(w.Total))
	}
	return domain.TrendSeries{Labels: labels, Values: values}
}

// categoryBuilder accumulates per-category totals preserving first-seen
// label order, which is what ties palette colors to discovery order.
type categoryBuilder struct {
	index  map[string]int
	labels []string
	values []float64
}

func newCategorySeries() *categoryBuilder {
	return &categoryBuilder{index: make(map[string]int)}
}

func (b *categoryBuilder) add(label string, amount float64) {
	i, ok := b.index[label]
	if !ok {
		i = len(b.labels)
		b.index[label] = i
		b.labels = append(b.labels, label)
		b.values = append(b.values, 0)
	}
	b.values[i] += amount
}

func (b *categoryBuilder) series() domain.CategorySeries {
	colors := make([]string, len(b.labels))
	for i := range b.labels {
		colors[i] = palette[i%len(palette)]
	}
	return domain.CategorySeries{
		Labels: append([]string{}, b.labels...),
		Values: append([]float64{}, b.values...),
		Colors: colors,
	}
}
