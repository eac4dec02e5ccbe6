package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ndthanh/spendlens/internal/domain"
)

// Heuristic policy constants. These mirror the product's fixed thresholds
// and are deliberately not configurable.
const (
	nightChangeNoticePct = 20 // informational night-spending delta
	nightChangeAlertPct  = 40 // alert-level night-spending delta
	topShareSuggestPct   = 30 // top-category share that triggers a cut suggestion
	topShareSavingsPct   = 35 // top-category share that triggers the savings action
	categoryGrowthPct    = 30 // category growth that triggers an alert
	savingsCutRate       = 0.05
	forecastCutRate      = 0.08
)

// Summary is the result of the basic insight pass: rendered insight lines,
// the 3-month trend line and the raw month windows that the detailed pass
// and the trend chart read from.
type Summary struct {
	Insights []string
	LineData domain.TrendSeries
	Raw      domain.RawData
}

// BuildRawData aggregates expense transactions into the three consecutive
// month windows ending at the month of now (M-2, M-1, M). Income and
// undated records never contribute.
func BuildRawData(transactions []domain.Transaction, now time.Time) domain.RawData {
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	windows := make([]domain.MonthWindow, 0, 3)
	index := make(map[string]int, 3)
	for i := 2; i >= 0; i-- {
		start := anchor.AddDate(0, -i, 0)
		key := start.Format("2006-01")
		index[key] = len(windows)
		windows = append(windows, domain.MonthWindow{
			Key:    key,
			Label:  start.Format("01/2006"),
			Start:  start,
			CatMap: make(map[string]float64),
		})
	}

	for _, tx := range transactions {
		if tx.Type != domain.TxExpense || tx.Date == nil {
			continue
		}
		i, ok := index[tx.Date.Format("2006-01")]
		if !ok {
			continue
		}
		amt := tx.Amount.Value()
		w := &windows[i]
		w.Total += amt
		if tx.Category != nil && tx.Category.Name != "" {
			w.CatMap[tx.Category.Name] += amt
		}
		if h := tx.Date.Hour(); h < 6 || h >= 21 {
			w.NightExpense += amt
		}
	}

	return domain.RawData{Windows: windows}
}

// ComputeInsights runs the basic heuristic pass: top-category share with a
// month-over-month delta, night-spending change, and the run-rate forecast.
// now anchors the current month and must be injected by the caller.
func ComputeInsights(transactions []domain.Transaction, now time.Time) Summary {
	raw := BuildRawData(transactions, now)
	cur, prev := raw.Current(), raw.Previous()

	var insights []string

	// Top-category share.
	if name, amt, ok := topCategory(cur); ok && cur.Total > 0 {
		share := roundPct(amt, cur.Total)
		text := fmt.Sprintf("Tháng này bạn chi nhiều nhất cho %s: %s, chiếm %d%% tổng chi tiêu",
			name, formatMoney(amt), share)
		if prev.Total > 0 {
			delta := share - roundPct(prev.CatMap[name], prev.Total)
			switch {
			case delta > 0:
				text += fmt.Sprintf(", tăng %d%% so với tháng trước", delta)
			case delta < 0:
				text += fmt.Sprintf(", giảm %d%% so với tháng trước", -delta)
			default:
				text += ", không đổi so với tháng trước"
			}
		}
		insights = append(insights, text+".")

		if share >= topShareSuggestPct {
			insights = append(insights, fmt.Sprintf(
				"%s đang chiếm %d%% chi tiêu, hãy đặt mục tiêu giảm 5-10%% cho nhóm này trong tháng tới.",
				name, share))
		}
	}

	// Night-spending change (informational tier).
	if prev.NightExpense > 0 {
		change := changePct(cur.NightExpense, prev.NightExpense)
		if abs(change) >= nightChangeNoticePct {
			dir := "tăng"
			if change < 0 {
				dir = "giảm"
			}
			insights = append(insights, fmt.Sprintf(
				"Chi tiêu ban đêm của bạn %s %d%% so với tháng trước, hiện ở mức %s.",
				dir, abs(change), formatMoney(cur.NightExpense)))
		}
	}

	// Run-rate forecast.
	if cur.Total > 0 {
		avgPerDay, forecast, avgDiffPct := runRate(raw, now)
		cmp := "tương đương trung bình ngày của tháng trước"
		switch {
		case avgDiffPct > 0:
			cmp = fmt.Sprintf("cao hơn %d%% so với trung bình ngày của tháng trước", avgDiffPct)
		case avgDiffPct < 0:
			cmp = fmt.Sprintf("thấp hơn %d%% so với trung bình ngày của tháng trước", -avgDiffPct)
		}
		insights = append(insights, fmt.Sprintf(
			"Với nhịp chi khoảng %s mỗi ngày, dự kiến cả tháng bạn sẽ chi khoảng %s, %s.",
			formatMoney(avgPerDay), formatMoney(forecast), cmp))
	}

	return Summary{
		Insights: insights,
		LineData: TrendLine(raw),
		Raw:      raw,
	}
}

// DetailedSuggestions runs the second heuristic pass over raw month data
// and emits typed insight records: trend, forecast, alerts, wallet focus
// and savings actions. The transaction list is only consulted for the
// wallet breakdown; everything else derives from raw.
func DetailedSuggestions(transactions []domain.Transaction, raw domain.RawData, now time.Time) []domain.Insight {
	cur, prev := raw.Current(), raw.Previous()
	var out []domain.Insight

	// Month-over-month trend.
	switch {
	case prev.Total > 0:
		pct := changePct(cur.Total, prev.Total)
		dir := "tăng"
		if pct < 0 {
			dir = "giảm"
		}
		text := fmt.Sprintf("Tổng chi tiêu tháng này %s %d%% so với tháng trước (%s so với %s).",
			dir, abs(pct), formatMoney(cur.Total), formatMoney(prev.Total))
		if pct == 0 {
			text = fmt.Sprintf("Tổng chi tiêu tháng này không đổi so với tháng trước (%s).", formatMoney(cur.Total))
		}
		out = append(out, domain.Insight{Type: domain.InsightTrend, Text: text})
	case cur.Total > 0:
		out = append(out, domain.Insight{Type: domain.InsightTrend, Text: fmt.Sprintf(
			"Tháng này bạn bắt đầu ghi nhận chi tiêu, tổng cộng %s.", formatMoney(cur.Total))})
	}

	// Run-rate forecast.
	avgPerDay, forecast, _ := runRate(raw, now)
	if forecast > 0 {
		out = append(out, domain.Insight{Type: domain.InsightForecast, Text: fmt.Sprintf(
			"Dự báo chi tiêu cả tháng: khoảng %s (trung bình %s mỗi ngày).",
			formatMoney(forecast), formatMoney(avgPerDay))})
	}

	// Category growth ranking.
	if name, amt, pct, ok := topCategoryGrowth(cur, prev); ok && pct >= categoryGrowthPct {
		out = append(out, domain.Insight{Type: domain.InsightAlert, Text: fmt.Sprintf(
			"Chi tiêu cho %s tăng %d%% so với tháng trước, hiện ở mức %s. Hãy để ý nhóm này.",
			name, pct, formatMoney(amt))})
	}

	// Night-spending change (alert tier).
	if prev.NightExpense > 0 && cur.NightExpense > 0 {
		change := changePct(cur.NightExpense, prev.NightExpense)
		if abs(change) >= nightChangeAlertPct {
			dir := "tăng mạnh"
			if change < 0 {
				dir = "giảm mạnh"
			}
			out = append(out, domain.Insight{Type: domain.InsightAlert, Text: fmt.Sprintf(
				"Chi tiêu ban đêm %s %d%% so với tháng trước (%s). Cân nhắc hạn chế chi tiêu sau 21h.",
				dir, abs(change), formatMoney(cur.NightExpense))})
		}
	}

	// Wallet concentration.
	if name, amt, ok := topWallet(transactions, now); ok {
		out = append(out, domain.Insight{Type: domain.InsightFocus, Text: fmt.Sprintf(
			"Phần lớn chi tiêu tháng này đến từ ví %s: %s.", name, formatMoney(amt))})
	}

	// Savings-potential action on the dominant category.
	if name, amt, ok := topCategory(cur); ok && cur.Total > 0 {
		if roundPct(amt, cur.Total) >= topShareSavingsPct {
			saveTarget := math.Round(amt * savingsCutRate)
			out = append(out, domain.Insight{Type: domain.InsightAction, Text: fmt.Sprintf(
				"Giảm 5%% chi tiêu cho %s sẽ giúp bạn tiết kiệm khoảng %s mỗi tháng.",
				name, formatMoney(saveTarget))})
		}
	}

	// General savings target against the forecast.
	if forecast > 0 && prev.Total > 0 {
		potentialCut := math.Round(forecast * forecastCutRate)
		out = append(out, domain.Insight{Type: domain.InsightAction, Text: fmt.Sprintf(
			"Đặt mục tiêu chi thấp hơn dự báo 8%%, bạn sẽ để dành được khoảng %s trong tháng này.",
			formatMoney(potentialCut))})
	}

	return out
}

// MergeInsights combines the basic pass (plain strings, typed basic) with
// the detailed pass into one duplicate-free list. Dedupe is by exact text;
// first-seen order wins.
func MergeInsights(basic []string, detailed []domain.Insight) []domain.Insight {
	seen := make(map[string]struct{})
	var out []domain.Insight

	add := func(in domain.Insight) {
		if in.Text == "" {
			return
		}
		if _, dup := seen[in.Text]; dup {
			return
		}
		seen[in.Text] = struct{}{}
		out = append(out, in)
	}

	for _, text := range basic {
		add(domain.Insight{Type: domain.InsightBasic, Text: text})
	}
	for _, in := range detailed {
		add(in)
	}
	return out
}

// NormalizeServerItems maps server-provided insight items onto the internal
// enum, case-normalized, dropping empty texts.
func NormalizeServerItems(items []domain.ServerInsightItem) []domain.Insight {
	out := make([]domain.Insight, 0, len(items))
	for _, it := range items {
		text := strings.TrimSpace(it.Text)
		if text == "" {
			continue
		}
		out = append(out, domain.Insight{
			Type: domain.ParseInsightType(strings.ToLower(strings.TrimSpace(it.Type))),
			Text: text,
		})
	}
	return out
}

// runRate computes the linear run-rate forecast for the current month:
// average spend per elapsed day (inclusive of today) extrapolated to the
// full month, plus the rounded delta of that daily average against the
// previous month's.
func runRate(raw domain.RawData, now time.Time) (avgPerDay, forecast float64, avgDiffPct int) {
	cur, prev := raw.Current(), raw.Previous()

	daysElapsed := now.Day()
	if daysElapsed < 1 {
		daysElapsed = 1
	}
	avgPerDay = cur.Total / float64(daysElapsed)
	forecast = math.Round(avgPerDay * float64(daysInMonth(now)))

	if prev.Total > 0 {
		prevAvg := prev.Total / float64(daysInMonth(prev.Start))
		if prevAvg > 0 {
			avgDiffPct = int(math.Round((avgPerDay - prevAvg) / prevAvg * 100))
		}
	}
	return avgPerDay, forecast, avgDiffPct
}

// topCategory returns the category with the highest expense in the window.
// Iteration is over sorted names so ties resolve deterministically.
func topCategory(w domain.MonthWindow) (name string, amount float64, ok bool) {
	for _, n := range sortedKeys(w.CatMap) {
		if amt := w.CatMap[n]; amt > amount {
			name, amount = n, amt
		}
	}
	return name, amount, name != ""
}

// topCategoryGrowth ranks the current month's categories by month-over-month
// growth percentage and returns the top entry. A category absent last month
// counts as 100% growth when it has spend now.
func topCategoryGrowth(cur, prev domain.MonthWindow) (name string, amount float64, growth int, ok bool) {
	type entry struct {
		name string
		amt  float64
		pct  int
	}
	var entries []entry
	for _, n := range sortedKeys(cur.CatMap) {
		amt := cur.CatMap[n]
		pct := changePct(amt, prev.CatMap[n])
		entries = append(entries, entry{name: n, amt: amt, pct: pct})
	}
	if len(entries) == 0 {
		return "", 0, 0, false
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].pct > entries[j].pct })
	top := entries[0]
	return top.name, top.amt, top.pct, true
}

// topWallet sums current-month expenses per wallet name and returns the
// highest-spending wallet. First-seen order breaks ties.
func topWallet(transactions []domain.Transaction, now time.Time) (name string, amount float64, ok bool) {
	totals := make(map[string]float64)
	var order []string

	for _, tx := range transactions {
		if tx.Type != domain.TxExpense || tx.Date == nil {
			continue
		}
		if tx.Date.Year() != now.Year() || tx.Date.Month() != now.Month() {
			continue
		}
		n := tx.WalletName()
		if _, exists := totals[n]; !exists {
			order = append(order, n)
		}
		totals[n] += tx.Amount.Value()
	}

	for _, n := range order {
		if totals[n] > amount {
			name, amount = n, totals[n]
		}
	}
	return name, amount, amount > 0
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
