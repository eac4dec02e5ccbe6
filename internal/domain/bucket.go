package domain

import "time"

// ============================================================
// Time buckets
// ============================================================

// Granularity selects the calendar window used to group transactions.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ParseGranularity validates a user-supplied granularity string.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return Granularity(s), nil
	}
	return "", &ErrValidation{Field: "granularity", Message: "must be one of day, week, month"}
}

// HighlightTag says why a transaction was picked as a bucket highlight.
type HighlightTag string

const (
	HighlightExpenseMax HighlightTag = "expense-max"
	HighlightIncomeMax  HighlightTag = "income-max"
	HighlightSingle     HighlightTag = "single"
)

// BucketHighlight is one highlighted transaction inside a bucket.
type BucketHighlight struct {
	Tag         HighlightTag `json:"tag"`
	Transaction Transaction  `json:"transaction"`
}

// TimeBucket aggregates the transactions of one disjoint calendar window.
// Buckets are value objects: recomputed from scratch on every granularity
// or data change, never mutated in place.
type TimeBucket struct {
	// Key is the canonical window identifier: YYYY-MM-DD, YYYY-Www or YYYY-MM.
	Key string `json:"key"`
	// Start is the first instant of the window, used only for ordering.
	Start        time.Time         `json:"start"`
	TotalExpense float64           `json:"totalExpense"`
	TotalIncome  float64           `json:"totalIncome"`
	Net          float64           `json:"net"`
	Count        int               `json:"count"`
	Highlight    []BucketHighlight `json:"highlight"`
	// All holds every transaction of the window, newest first.
	All []Transaction `json:"all"`
}
