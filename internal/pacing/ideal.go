package pacing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/model"
)

// RoundCurrency rounds to two fractional digits, half away from zero. Use it
// on displayed values only; accumulate at full precision.
func RoundCurrency(x decimal.Decimal) decimal.Decimal {
	return x.Round(2)
}

// IdealLine returns the planned cumulative spend for each day 1..days, so the
// last entry equals budget exactly. A budget of zero or less yields zeros.
func IdealLine(budget decimal.Decimal, days int) []decimal.Decimal {
	if days <= 0 {
		return []decimal.Decimal{}
	}

	line := make([]decimal.Decimal, days)
	if !budget.IsPositive() {
		for i := range line {
			line[i] = decimal.Zero
		}
		return line
	}

	n := decimal.NewFromInt(int64(days))
	for d := 1; d <= days; d++ {
		line[d-1] = budget.Mul(decimal.NewFromInt(int64(d))).Div(n)
	}
	return line
}

// IdealPerDay is the budget spread evenly over the days of month.
func IdealPerDay(budget decimal.Decimal, month model.Month) decimal.Decimal {
	days := month.Days()
	if !budget.IsPositive() || days <= 0 {
		return decimal.Zero
	}
	return budget.Div(decimal.NewFromInt(int64(days)))
}

// DaysElapsed returns how many days of month have started at ref: zero for a
// future month, every day for a past month, otherwise ref's day of month.
func DaysElapsed(month model.Month, ref time.Time) int {
	switch {
	case ref.Before(month.Start()):
		return 0
	case !ref.Before(month.End()):
		return month.Days()
	}
	return ref.In(month.Start().Location()).Day()
}

// IdealToDate is the planned cumulative spend through ref.
func IdealToDate(budget decimal.Decimal, month model.Month, ref time.Time) decimal.Decimal {
	days := month.Days()
	elapsed := DaysElapsed(month, ref)
	if !budget.IsPositive() || days <= 0 || elapsed == 0 {
		return decimal.Zero
	}
	// Multiply before dividing so a finished month lands on the budget exactly.
	return budget.Mul(decimal.NewFromInt(int64(elapsed))).Div(decimal.NewFromInt(int64(days)))
}
