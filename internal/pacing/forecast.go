package pacing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/model"
)

// ForecastSummary compares what was spent so far with what the plan allowed.
type ForecastSummary struct {
	Actual      decimal.Decimal
	IdealToDate decimal.Decimal
	// Difference is IdealToDate minus Actual; negative means overspent.
	Difference decimal.Decimal
	Over       bool
}

// Forecast summarizes spending in month up to ref against budget.
func Forecast(transactions []model.Transaction, budget decimal.Decimal, month model.Month, ref time.Time) ForecastSummary {
	actual := Sum(DailyTotals(transactions, month))
	ideal := IdealToDate(budget, month, ref)
	diff := ideal.Sub(actual)

	return ForecastSummary{
		Actual:      actual,
		IdealToDate: ideal,
		Difference:  diff,
		Over:        diff.IsNegative(),
	}
}

// AverageSummary holds the planned and actual average daily spend, rounded
// for display.
type AverageSummary struct {
	IdealDaily  decimal.Decimal
	ActualDaily decimal.Decimal
	DaysElapsed int
}

// Faster reports whether the month is being spent faster than planned.
func (a AverageSummary) Faster() bool {
	return a.IdealDaily.IsPositive() && a.ActualDaily.GreaterThan(a.IdealDaily)
}

// DailyAverage computes the ideal and actual average daily spend.
func DailyAverage(transactions []model.Transaction, budget decimal.Decimal, month model.Month, ref time.Time) AverageSummary {
	elapsed := DaysElapsed(month, ref)
	summary := AverageSummary{
		IdealDaily:  RoundCurrency(IdealPerDay(budget, month)),
		ActualDaily: decimal.Zero,
		DaysElapsed: elapsed,
	}

	if elapsed > 0 {
		total := Sum(DailyTotals(transactions, month))
		summary.ActualDaily = RoundCurrency(total.Div(decimal.NewFromInt(int64(elapsed))))
	}

	return summary
}

// BurnLevel grades one day's spending against the daily target.
type BurnLevel string

// Burn levels.
const (
	BurnNone     BurnLevel = "none"
	BurnBelow    BurnLevel = "below"
	BurnOnTarget BurnLevel = "on-target"
	BurnAbove    BurnLevel = "above"
)

// burnTolerance is the relative band around the daily target that still
// counts as on target.
var burnTolerance = decimal.RequireFromString("0.05")

// BurnDay is one day of the daily burn chart.
type BurnDay struct {
	Amount decimal.Decimal
	// Ratio is Amount over the daily target, capped at 1. Without a budget
	// it is relative to the busiest day instead.
	Ratio float64
	Level BurnLevel
	Day   int
}

// Burn grades every day of month against the budget's daily target. Days
// without spending and months without a budget get BurnNone.
func Burn(transactions []model.Transaction, budget decimal.Decimal, month model.Month) []BurnDay {
	daily := DailyTotals(transactions, month)
	target := IdealPerDay(budget, month)

	peak := decimal.Zero
	for _, v := range daily {
		peak = decimal.Max(peak, v)
	}

	low := target.Mul(decimal.NewFromInt(1).Sub(burnTolerance))
	high := target.Mul(decimal.NewFromInt(1).Add(burnTolerance))

	out := make([]BurnDay, len(daily))
	for i, amount := range daily {
		day := BurnDay{Day: i + 1, Amount: amount, Level: BurnNone}

		switch {
		case target.IsPositive():
			day.Ratio = min(amount.Div(target).InexactFloat64(), 1)
		case peak.IsPositive():
			day.Ratio = amount.Div(peak).InexactFloat64()
		}

		if target.IsPositive() && amount.IsPositive() {
			switch {
			case amount.LessThan(low):
				day.Level = BurnBelow
			case amount.LessThanOrEqual(high):
				day.Level = BurnOnTarget
			default:
				day.Level = BurnAbove
			}
		}

		out[i] = day
	}
	return out
}
