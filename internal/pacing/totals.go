// Package pacing aggregates a month of expenses and compares them against a
// linear spending plan derived from the monthly budget.
package pacing

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/model"
)

// WeekCount is the number of fixed weekly buckets in a month.
const WeekCount = 4

// DailyTotals buckets transactions by day of month. The result has one entry
// per day of month; transactions dated outside month are ignored.
func DailyTotals(transactions []model.Transaction, month model.Month) []decimal.Decimal {
	days := month.Days()
	totals := make([]decimal.Decimal, days)
	for i := range totals {
		totals[i] = decimal.Zero
	}

	for _, t := range transactions {
		if !month.Contains(t.Date) {
			continue
		}
		day := t.Date.In(month.Start().Location()).Day()
		totals[day-1] = totals[day-1].Add(t.Amount)
	}

	return totals
}

// CumulativeSum returns the running prefix sum of daily.
func CumulativeSum(daily []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(daily))
	running := decimal.Zero
	for i, v := range daily {
		running = running.Add(v)
		out[i] = running
	}
	return out
}

// WeeklyTotals partitions the month into the fixed day ranges 1-7, 8-14,
// 15-21 and 22 through the end of the month. These are not calendar weeks.
func WeeklyTotals(transactions []model.Transaction, month model.Month) [WeekCount]decimal.Decimal {
	var weeks [WeekCount]decimal.Decimal
	for i := range weeks {
		weeks[i] = decimal.Zero
	}

	for i, amount := range DailyTotals(transactions, month) {
		bucket := min(i/7, WeekCount-1)
		weeks[bucket] = weeks[bucket].Add(amount)
	}

	return weeks
}

// Sum adds up a sequence of amounts.
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// InMonth returns the transactions dated inside month.
func InMonth(transactions []model.Transaction, month model.Month) []model.Transaction {
	var out []model.Transaction
	for _, t := range transactions {
		if month.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}
