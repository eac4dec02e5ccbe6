package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/ndthanh/spendlens/internal/domain"
)

var chartNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestPrepareCategoryChart_CurrentMonthOnly(t *testing.T) {
	txs := []domain.Transaction{
		expense("m1", 100000, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), "Food"),
		expense("m2", 50000, time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC), ""),
		expense("old", 999999, time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC), "Food"),
		income("m3", 500000, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
		{ID: "undated", Type: domain.TxExpense, Amount: 777},
	}

	chart := PrepareCategoryChart(txs, chartNow, "")

	wantLabels := []string{"Food", domain.UnknownCategoryName}
	if !reflect.DeepEqual(chart.Expense.Labels, wantLabels) {
		t.Errorf("expected expense labels %v, got %v", wantLabels, chart.Expense.Labels)
	}
	if !reflect.DeepEqual(chart.Expense.Values, []float64{100000, 50000}) {
		t.Errorf("unexpected expense values: %v", chart.Expense.Values)
	}
	if !reflect.DeepEqual(chart.Income.Values, []float64{500000}) {
		t.Errorf("unexpected income values: %v", chart.Income.Values)
	}
}

func TestPrepareCategoryChart_WalletFilter(t *testing.T) {
	txs := []domain.Transaction{
		expenseAt("w1", 100000, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), "Food", "wallet-1", "Ví chính"),
		expenseAt("w2", 50000, time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC), "Food", "wallet-2", "Ví phụ"),
		expense("no-wallet", 30000, time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC), "Food"),
	}

	chart := PrepareCategoryChart(txs, chartNow, "wallet-1")
	if !reflect.DeepEqual(chart.Expense.Values, []float64{100000}) {
		t.Errorf("wallet filter must keep only wallet-1 spend, got %v", chart.Expense.Values)
	}
}

func TestPrepareCategoryChart_PaletteFollowsDiscoveryOrder(t *testing.T) {
	txs := []domain.Transaction{
		expense("a", 100, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), "Alpha"),
		expense("b", 200, time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC), "Beta"),
		expense("a2", 300, time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC), "Alpha"),
		expense("c", 400, time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC), "Gamma"),
	}

	chart := PrepareCategoryChart(txs, chartNow, "")

	wantLabels := []string{"Alpha", "Beta", "Gamma"}
	if !reflect.DeepEqual(chart.Expense.Labels, wantLabels) {
		t.Fatalf("expected labels %v, got %v", wantLabels, chart.Expense.Labels)
	}
	wantColors := []string{palette[0], palette[1], palette[2]}
	if !reflect.DeepEqual(chart.Expense.Colors, wantColors) {
		t.Errorf("expected colors %v, got %v", wantColors, chart.Expense.Colors)
	}

	// Same input, same colors.
	again := PrepareCategoryChart(txs, chartNow, "")
	if !reflect.DeepEqual(chart, again) {
		t.Error("expected identical chart for identical input")
	}
}

func TestPrepareCashflowChart_Window(t *testing.T) {
	txs := []domain.Transaction{
		expense("today", 40000, chartNow, "Food"),
		income("today-in", 100000, chartNow),
		expense("edge", 10000, time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC), "Food"),    // exactly 30 days back
		expense("too-old", 99999, time.Date(2024, 2, 13, 12, 0, 0, 0, time.UTC), "Food"), // 31 days back
		{ID: "undated", Type: domain.TxExpense, Amount: 777},
	}

	chart := PrepareCashflowChart(txs, chartNow)

	if len(chart.Labels) != 31 || len(chart.Income) != 31 || len(chart.Expense) != 31 {
		t.Fatalf("expected 31-point series, got %d/%d/%d", len(chart.Labels), len(chart.Income), len(chart.Expense))
	}
	if chart.Labels[0] != "2024-02-14" || chart.Labels[30] != "2024-03-15" {
		t.Errorf("unexpected window: %s .. %s", chart.Labels[0], chart.Labels[30])
	}
	if chart.Expense[30] != -40000 {
		t.Errorf("expense values are negated for display, got %f", chart.Expense[30])
	}
	if chart.Income[30] != 100000 {
		t.Errorf("expected today's income 100000, got %f", chart.Income[30])
	}
	if chart.Expense[0] != -10000 {
		t.Errorf("expected edge-day expense -10000, got %f", chart.Expense[0])
	}

	// (100000 - 50000) / 100000 * 100
	if chart.PercentChange != 50 {
		t.Errorf("expected percent change 50, got %f", chart.PercentChange)
	}
}

func TestPrepareCashflowChart_NoIncome(t *testing.T) {
	txs := []domain.Transaction{
		expense("e1", 40000, chartNow, "Food"),
	}

	chart := PrepareCashflowChart(txs, chartNow)
	if chart.PercentChange != 0 {
		t.Errorf("percent change must be 0 without income, got %f", chart.PercentChange)
	}
}

func TestTrendLine(t *testing.T) {
	raw := BuildRawData([]domain.Transaction{
		expense("jan", 100000.4, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "Food"),
		expense("mar", 300000, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), "Food"),
	}, chartNow)

	line := TrendLine(raw)
	if !reflect.DeepEqual(line.Labels, []string{"01/2024", "02/2024", "03/2024"}) {
		t.Errorf("unexpected labels: %v", line.Labels)
	}
	if !reflect.DeepEqual(line.Values, []float64{100000, 0, 300000}) {
		t.Errorf("unexpected values: %v", line.Values)
	}
}
