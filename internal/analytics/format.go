package analytics

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Insight text is rendered for the Vietnamese locale: grouped digits with
// the đồng sign. Amounts are always displayed non-negative; sign is carried
// by the wording, not the numeral.
var printer = message.NewPrinter(language.Vietnamese)

func formatMoney(v float64) string {
	n := int64(math.Round(math.Abs(v)))
	return printer.Sprintf("%v₫", number.Decimal(n))
}

// roundPct computes round(part/whole*100) with a guarded denominator.
// A zero or negative whole yields 0, never NaN or Infinity.
func roundPct(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}

// changePct computes the rounded percentage change from prev to cur.
// When prev is zero the change is 100 if cur is positive, else 0.
func changePct(cur, prev float64) int {
	if prev > 0 {
		return int(math.Round((cur - prev) / prev * 100))
	}
	if cur > 0 {
		return 100
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
