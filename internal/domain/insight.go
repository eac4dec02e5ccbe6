package domain

import "time"

// ============================================================
// Insights
// ============================================================

// InsightType classifies a derived natural-language statement.
type InsightType string

const (
	InsightTrend    InsightType = "trend"
	InsightForecast InsightType = "forecast"
	InsightAlert    InsightType = "alert"
	InsightFocus    InsightType = "focus"
	InsightAction   InsightType = "action"
	InsightBasic    InsightType = "basic"
)

// ParseInsightType maps a free-form type label (e.g. from the server-side
// insight API) to the internal enum, defaulting to basic.
func ParseInsightType(s string) InsightType {
	switch InsightType(s) {
	case InsightTrend, InsightForecast, InsightAlert, InsightFocus, InsightAction, InsightBasic:
		return InsightType(s)
	}
	return InsightBasic
}

// Insight is a derived, typed, natural-language statement about spending
// behaviour. Insights are value objects regenerated on every computation
// and never persisted.
type Insight struct {
	Type InsightType `json:"type"`
	Text string      `json:"text"`
}

// InsightSource tags where a set of insights came from.
type InsightSource string

const (
	InsightSourceServer InsightSource = "server"
	InsightSourceLocal  InsightSource = "local"
)

// MonthWindow is one of three consecutive calendar months used for trend
// comparison. Only expense-type transactions contribute to its totals.
type MonthWindow struct {
	// Key is the YYYY-MM identifier of the month.
	Key string `json:"key"`
	// Label is the human display form, MM/YYYY.
	Label string `json:"label"`
	// Start is the first day of the month.
	Start time.Time `json:"start"`
	// Total is the summed expense amount of the month.
	Total float64 `json:"total"`
	// CatMap maps category name to summed expense. Transactions without a
	// category are absent from the map.
	CatMap map[string]float64 `json:"catMap"`
	// NightExpense sums expenses whose local hour is <6 or >=21.
	NightExpense float64 `json:"nightExpense"`
}

// RawData carries the three month windows (M-2, M-1, M) that every
// heuristic derivation reads from.
type RawData struct {
	Windows []MonthWindow `json:"windows"`
}

// Current returns the window of the anchor month.
func (r RawData) Current() MonthWindow {
	if len(r.Windows) == 0 {
		return MonthWindow{}
	}
	return r.Windows[len(r.Windows)-1]
}

// Previous returns the window of the month before the anchor month.
func (r RawData) Previous() MonthWindow {
	if len(r.Windows) < 2 {
		return MonthWindow{}
	}
	return r.Windows[len(r.Windows)-2]
}

// InsightReport is the full insight-engine result served to clients: the
// chosen insight set plus the locally computed chart series, which are
// always attached regardless of the insight source.
type InsightReport struct {
	Source   InsightSource `json:"source"`
	Insights []Insight     `json:"insights"`
	LineData TrendSeries   `json:"lineData"`
	RawData  RawData       `json:"rawData"`
}

// ============================================================
// Server-side insight API contract
// ============================================================

// ServerInsightItem is one pre-rendered insight from the server API.
type ServerInsightItem struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// ServerInsightResponse is the payload of the optional server-side insight
// endpoint. Every field may be absent; absence of the endpoint as a whole
// must not prevent the local heuristic path from producing a full result.
type ServerInsightResponse struct {
	AIItems     []ServerInsightItem `json:"aiItems,omitempty"`
	Suggestions []string            `json:"suggestions,omitempty"`
	LineData    *TrendSeries        `json:"lineData,omitempty"`
}
