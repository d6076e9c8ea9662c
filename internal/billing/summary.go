package billing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/model"
)

// CardSummary is the state of a card's current billing cycle.
type CardSummary struct {
	Card        model.CardProfile
	Cycle       Cycle
	Spent       decimal.Decimal
	Available   decimal.Decimal
	Utilization float64 // 0..1 share of the cycle limit used
	DaysToDue   int
	Count       int
}

// Summarize totals the card's spending inside its current cycle. Transactions
// for other cards or outside the cycle are ignored.
func Summarize(card model.CardProfile, transactions []model.Transaction, ref time.Time, loc *time.Location) CardSummary {
	cycle := CycleFor(card, ref, loc)

	spent := decimal.Zero
	count := 0
	for _, t := range transactions {
		if t.CardID == nil || *t.CardID != card.ID {
			continue
		}
		if !cycle.Contains(t.Date) {
			continue
		}
		spent = spent.Add(t.Amount)
		count++
	}

	s := CardSummary{
		Card:      card,
		Cycle:     cycle,
		Spent:     spent,
		Available: card.CycleLimit.Sub(spent),
		Count:     count,
		DaysToDue: daysBetween(ref, cycle.Due),
	}

	if card.CycleLimit.IsPositive() {
		ratio := spent.Div(card.CycleLimit).InexactFloat64()
		s.Utilization = min(max(ratio, 0), 1)
	}

	return s
}

// SortSummaries orders summaries by due date, most spent first on equal dates.
func SortSummaries(summaries []CardSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.Cycle.Due.Equal(b.Cycle.Due) {
			return a.Spent.GreaterThan(b.Spent)
		}
		return a.Cycle.Due.Before(b.Cycle.Due)
	})
}

// daysBetween counts calendar days from ref's date to due, never negative.
func daysBetween(ref, due time.Time) int {
	ref = ref.In(due.Location())
	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, due.Location())
	if !due.After(today) {
		return 0
	}
	days := 0
	for d := today; d.Before(due); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}
