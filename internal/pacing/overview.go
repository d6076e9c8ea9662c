package pacing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/model"
)

// MonthOverview is the at-a-glance state of a month.
type MonthOverview struct {
	Budget        decimal.Decimal
	Spent         decimal.Decimal
	SpentToday    decimal.Decimal
	SpentThisWeek decimal.Decimal
	Remaining     decimal.Decimal
	// Progress is Spent over Budget clamped to [0, 1]; 0 without a budget.
	Progress      float64
	DaysRemaining int
	OverBudget    bool
}

// Overview summarizes month at ref. The current week starts on weekStart and
// only counts spending inside month.
func Overview(transactions []model.Transaction, budget decimal.Decimal, month model.Month, ref time.Time, weekStart time.Weekday) MonthOverview {
	loc := month.Start().Location()
	local := ref.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	tomorrow := today.AddDate(0, 0, 1)

	offset := (int(today.Weekday()) - int(weekStart) + 7) % 7
	week := today.AddDate(0, 0, -offset)
	weekEnd := week.AddDate(0, 0, 7)

	o := MonthOverview{
		Budget:        budget,
		Spent:         decimal.Zero,
		SpentToday:    decimal.Zero,
		SpentThisWeek: decimal.Zero,
		DaysRemaining: daysLeft(month, ref),
	}

	for _, t := range InMonth(transactions, month) {
		o.Spent = o.Spent.Add(t.Amount)
		if !t.Date.Before(today) && t.Date.Before(tomorrow) {
			o.SpentToday = o.SpentToday.Add(t.Amount)
		}
		if !t.Date.Before(week) && t.Date.Before(weekEnd) {
			o.SpentThisWeek = o.SpentThisWeek.Add(t.Amount)
		}
	}

	o.Remaining = budget.Sub(o.Spent)
	if budget.IsPositive() {
		o.Progress = min(max(o.Spent.Div(budget).InexactFloat64(), 0), 1)
		o.OverBudget = o.Spent.GreaterThan(budget)
	}

	return o
}

// daysLeft counts the days of month still ahead of ref, including ref's day.
func daysLeft(month model.Month, ref time.Time) int {
	switch {
	case ref.Before(month.Start()):
		return month.Days()
	case !ref.Before(month.End()):
		return 0
	}
	return month.Days() - DaysElapsed(month, ref) + 1
}
