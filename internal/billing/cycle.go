// Package billing computes credit card billing cycles and due dates.
package billing

import (
	"time"

	"github.com/Veraticus/spendsnap/internal/model"
)

// Cycle is the half-open interval [Start, End) during which card spending
// accrues to one statement, together with the payment due date.
type Cycle struct {
	Start time.Time
	End   time.Time
	Due   time.Time
}

// Contains reports whether t belongs to the cycle. A transaction dated
// exactly at End belongs to the next cycle.
func (c Cycle) Contains(t time.Time) bool {
	return !t.Before(c.Start) && t.Before(c.End)
}

// ClampedDate returns midnight on the given nominal day of month in loc. The
// month may overflow (13 is January of the following year, 0 is December of
// the previous one) and the day is clamped to [1, days in that month].
func ClampedDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1).Day()

	switch {
	case day < 1:
		day = 1
	case day > last:
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)
}

// ComputeCycle returns the billing cycle containing ref for a card with the
// given nominal statement and due days. Days must already be validated.
func ComputeCycle(statementDay, dueDay int, ref time.Time, loc *time.Location) Cycle {
	if loc == nil {
		loc = time.Local
	}
	ref = ref.In(loc)
	year, month := ref.Year(), ref.Month()

	thisStatement := ClampedDate(year, month, statementDay, loc)

	var c Cycle
	if !ref.Before(thisStatement) {
		c.Start = thisStatement
		c.End = ClampedDate(year, month+1, statementDay, loc)
	} else {
		c.Start = ClampedDate(year, month-1, statementDay, loc)
		c.End = thisStatement
	}

	// A due day that does not come after the statement day falls in the
	// month following the cycle end.
	dueMonth := c.End.Month()
	if dueDay <= statementDay {
		dueMonth++
	}
	c.Due = ClampedDate(c.End.Year(), dueMonth, dueDay, loc)

	return c
}

// CycleFor returns the current billing cycle of a card.
func CycleFor(card model.CardProfile, ref time.Time, loc *time.Location) Cycle {
	return ComputeCycle(card.StatementDay, card.DueDay, ref, loc)
}

// DaysRemaining returns how many days of month are left on ref, counting
// ref's own day. It is the full length of the month before the month starts
// and zero once the month has ended.
func DaysRemaining(month model.Month, ref time.Time) int {
	start, end := month.Start(), month.End()
	switch {
	case ref.Before(start):
		return month.Days()
	case !ref.Before(end):
		return 0
	}
	return month.Days() - ref.In(start.Location()).Day() + 1
}
