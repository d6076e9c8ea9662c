package model

import (
	"fmt"
	"time"

	"github.com/Veraticus/spendsnap/internal/common"
)

// MonthKeyLayout is the layout of month keys such as "2025-10".
const MonthKeyLayout = "2006-01"

// Month identifies a calendar month in a specific location. The location is
// the calendar every day-of-month computation is made in.
type Month struct {
	Location *time.Location
	Year     int
	Month    time.Month
}

// MonthOf returns the month containing t, in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month(), Location: t.Location()}
}

// NewMonth returns the given month in loc, normalizing month overflow.
func NewMonth(year int, month time.Month, loc *time.Location) Month {
	return MonthOf(time.Date(year, month, 1, 0, 0, 0, 0, locOrLocal(loc)))
}

// ParseMonthKey parses a "YYYY-MM" key in loc.
func ParseMonthKey(key string, loc *time.Location) (Month, error) {
	t, err := time.ParseInLocation(MonthKeyLayout, key, locOrLocal(loc))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", common.ErrInvalidMonthKey, key)
	}
	return MonthOf(t), nil
}

// Start returns midnight on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, locOrLocal(m.Location))
}

// End returns midnight on the first day of the following month (exclusive).
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return m.End().AddDate(0, 0, -1).Day()
}

// Key returns the "YYYY-MM" key.
func (m Month) Key() string {
	return m.Start().Format(MonthKeyLayout)
}

// String implements fmt.Stringer.
func (m Month) String() string {
	return m.Start().Format("January 2006")
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return !t.Before(m.Start()) && t.Before(m.End())
}

// Next returns the following month.
func (m Month) Next() Month {
	return MonthOf(m.Start().AddDate(0, 1, 0))
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	return MonthOf(m.Start().AddDate(0, -1, 0))
}

// Day returns midnight on day d of the month. d is not clamped.
func (m Month) Day(d int) time.Time {
	return time.Date(m.Year, m.Month, d, 0, 0, 0, 0, locOrLocal(m.Location))
}

// MonthKey returns the month key of t in t's location.
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

func locOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
