// Package analytics implements the pure computation core of spendlens:
// time-bucket aggregation, monthly insight heuristics and chart-series
// shaping. Every function here is a pure function of its inputs; the
// current time is always an explicit parameter, never read ambiently.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/ndthanh/spendlens/internal/domain"
)

// Bucket partitions transactions into disjoint calendar windows of the
// given granularity and aggregates each window. Transactions without a
// date are excluded. The returned buckets are ordered by window start,
// most recent first; ordering never depends on transaction order.
func Bucket(transactions []domain.Transaction, g domain.Granularity) []domain.TimeBucket {
	type group struct {
		start time.Time
		txs   []domain.Transaction
	}

	groups := make(map[string]*group)
	var keys []string

	for _, tx := range transactions {
		if tx.Date == nil {
			continue
		}
		key, start := bucketKey(*tx.Date, g)
		grp, ok := groups[key]
		if !ok {
			grp = &group{start: start}
			groups[key] = grp
			keys = append(keys, key)
		}
		grp.txs = append(grp.txs, tx)
	}

	buckets := make([]domain.TimeBucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, buildBucket(key, groups[key].start, groups[key].txs))
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Start.After(buckets[j].Start)
	})
	return buckets
}

// bucketKey derives the canonical window key and window start for a
// transaction date. Keys use the date's own local calendar components,
// never a UTC-normalized timestamp, so a 23:30 transaction in a UTC+7
// locale stays on its local day.
func bucketKey(d time.Time, g domain.Granularity) (string, time.Time) {
	switch g {
	case domain.GranularityWeek:
		year, week := d.ISOWeek()
		dayStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		monday := dayStart.AddDate(0, 0, -((int(d.Weekday()) + 6) % 7))
		return fmt.Sprintf("%d-W%02d", year, week), monday
	case domain.GranularityMonth:
		start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
		return d.Format("2006-01"), start
	default: // day
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		return d.Format("2006-01-02"), start
	}
}

func buildBucket(key string, start time.Time, txs []domain.Transaction) domain.TimeBucket {
	var expenses, incomes []domain.Transaction
	var totalExpense, totalIncome float64

	for _, tx := range txs {
		switch tx.Type {
		case domain.TxExpense:
			expenses = append(expenses, tx)
			totalExpense += tx.Amount.Value()
		case domain.TxIncome:
			incomes = append(incomes, tx)
			totalIncome += tx.Amount.Value()
		}
	}

	// Stable sort keeps ties resolved by original list order.
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Amount.Value() > expenses[j].Amount.Value()
	})
	sort.SliceStable(incomes, func(i, j int) bool {
		return incomes[i].Amount.Value() > incomes[j].Amount.Value()
	})

	var highlight []domain.BucketHighlight
	if len(expenses) > 0 {
		highlight = append(highlight, domain.BucketHighlight{Tag: domain.HighlightExpenseMax, Transaction: expenses[0]})
	}
	if len(incomes) > 0 {
		highlight = append(highlight, domain.BucketHighlight{Tag: domain.HighlightIncomeMax, Transaction: incomes[0]})
	}
	if len(highlight) == 0 {
		highlight = append(highlight, domain.BucketHighlight{Tag: domain.HighlightSingle, Transaction: txs[0]})
	}

	all := make([]domain.Transaction, len(txs))
	copy(all, txs)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.After(*all[j].Date)
	})

	return domain.TimeBucket{
		Key:          key,
		Start:        start,
		TotalExpense: totalExpense,
		TotalIncome:  totalIncome,
		Net:          totalIncome - totalExpense,
		Count:        len(txs),
		Highlight:    highlight,
		All:          all,
	}
}
