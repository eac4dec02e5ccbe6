package domain

// ============================================================
// Chart series
// ============================================================
//
// Series are deliberately chart-library agnostic: labels plus numeric
// arrays plus colors, nothing more.

// CategorySeries is one pie/bar series: per-category totals with a color
// assigned to each label.
type CategorySeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
}

// CategoryChart is the current-month category breakdown, split by
// transaction type.
type CategoryChart struct {
	Expense CategorySeries `json:"expense"`
	Income  CategorySeries `json:"income"`
}

// TrendSeries is a simple labelled line, one value per label.
type TrendSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// CashflowChart is the fixed 31-point income/expense column chart covering
// today minus 30 days through today. Expense values are negated so the two
// series render on opposite sides of zero.
type CashflowChart struct {
	Labels        []string  `json:"labels"`
	Income        []float64 `json:"income"`
	Expense       []float64 `json:"expense"`
	PercentChange float64   `json:"percentChange"`
}
