package pacing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/model"
)

// PaceState tells whether cumulative spending is within the plan.
type PaceState string

// Pace states.
const (
	Under PaceState = "under"
	Over  PaceState = "over"
)

// ClassifyPace returns Under when actual does not exceed ideal.
func ClassifyPace(actual, ideal decimal.Decimal) PaceState {
	if actual.LessThanOrEqual(ideal) {
		return Under
	}
	return Over
}

// PacePoint is one day of the actual-versus-ideal series.
type PacePoint struct {
	CumulativeActual decimal.Decimal
	CumulativeIdeal  decimal.Decimal
	State            PaceState
	Day              int
}

// Series returns one classified point per elapsed day of month.
func Series(transactions []model.Transaction, month model.Month, budget decimal.Decimal, ref time.Time) []PacePoint {
	elapsed := DaysElapsed(month, ref)
	actual := CumulativeSum(DailyTotals(transactions, month))
	ideal := IdealLine(budget, month.Days())

	points := make([]PacePoint, 0, elapsed)
	for i := 0; i < elapsed; i++ {
		points = append(points, PacePoint{
			Day:              i + 1,
			CumulativeActual: actual[i],
			CumulativeIdeal:  ideal[i],
			State:            ClassifyPace(actual[i], ideal[i]),
		})
	}
	return points
}

// Band is a run of consecutive days sharing one pace state.
type Band struct {
	State   PaceState
	FromDay int
	ToDay   int
}

// Bands merges adjacent points with the same state.
func Bands(points []PacePoint) []Band {
	var bands []Band
	for _, p := range points {
		if n := len(bands); n > 0 && bands[n-1].State == p.State && bands[n-1].ToDay == p.Day-1 {
			bands[n-1].ToDay = p.Day
			continue
		}
		bands = append(bands, Band{State: p.State, FromDay: p.Day, ToDay: p.Day})
	}
	return bands
}
