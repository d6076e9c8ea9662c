package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendsnap/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClampedDate(t *testing.T) {
	tests := []struct {
		name  string
		want  time.Time
		year  int
		month time.Month
		day   int
	}{
		{name: "in range", year: 2025, month: time.March, day: 15, want: date(2025, 3, 15)},
		{name: "31 in february", year: 2025, month: time.February, day: 31, want: date(2025, 2, 28)},
		{name: "31 in leap february", year: 2024, month: time.February, day: 31, want: date(2024, 2, 29)},
		{name: "30 in leap february", year: 2024, month: time.February, day: 30, want: date(2024, 2, 29)},
		{name: "31 in april", year: 2025, month: time.April, day: 31, want: date(2025, 4, 30)},
		{name: "month 13 rolls to january", year: 2025, month: 13, day: 31, want: date(2026, 1, 31)},
		{name: "month 0 rolls to december", year: 2025, month: 0, day: 31, want: date(2024, 12, 31)},
		{name: "month 14 clamps in february", year: 2023, month: 14, day: 30, want: date(2024, 2, 29)},
		{name: "day below one", year: 2025, month: time.May, day: 0, want: date(2025, 5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampedDate(tt.year, tt.month, tt.day, time.UTC)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.Zero(t, got.Hour())
		})
	}
}

func TestClampedDate_UsesLocation(t *testing.T) {
	loc := time.FixedZone("PKT", 5*60*60)
	got := ClampedDate(2025, time.June, 31, loc)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 30, got.Day())
	assert.Equal(t, 0, got.Hour())
}

func TestComputeCycle_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		ref          time.Time
		wantStart    time.Time
		wantEnd      time.Time
		wantDue      time.Time
		statementDay int
		dueDay       int
	}{
		{
			name:         "due day before statement day rolls past end",
			statementDay: 28, dueDay: 15,
			ref:       time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			wantStart: date(2025, 2, 28), wantEnd: date(2025, 3, 28), wantDue: date(2025, 4, 15),
		},
		{
			name:         "due day after statement day stays in end month",
			statementDay: 5, dueDay: 25,
			ref:       time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			wantStart: date(2025, 3, 5), wantEnd: date(2025, 4, 5), wantDue: date(2025, 4, 25),
		},
		{
			name:         "reference exactly at statement midnight starts new cycle",
			statementDay: 10, dueDay: 20,
			ref:       date(2025, 3, 10),
			wantStart: date(2025, 3, 10), wantEnd: date(2025, 4, 10), wantDue: date(2025, 4, 20),
		},
		{
			name:         "statement day 31 in february clamps",
			statementDay: 31, dueDay: 20,
			ref:       time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC),
			wantStart: date(2025, 2, 28), wantEnd: date(2025, 3, 31), wantDue: date(2025, 4, 20),
		},
		{
			name:         "statement day 31 mid february uses january",
			statementDay: 31, dueDay: 31,
			ref:       time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC),
			wantStart: date(2024, 1, 31), wantEnd: date(2024, 2, 29), wantDue: date(2024, 3, 31),
		},
		{
			name:         "year rollover forward",
			statementDay: 20, dueDay: 5,
			ref:       time.Date(2025, 12, 24, 9, 0, 0, 0, time.UTC),
			wantStart: date(2025, 12, 20), wantEnd: date(2026, 1, 20), wantDue: date(2026, 2, 5),
		},
		{
			name:         "year rollover backward",
			statementDay: 20, dueDay: 28,
			ref:       time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC),
			wantStart: date(2025, 12, 20), wantEnd: date(2026, 1, 20), wantDue: date(2026, 1, 28),
		},
		{
			name:         "equal statement and due day rolls a month",
			statementDay: 15, dueDay: 15,
			ref:       time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			wantStart: date(2025, 5, 15), wantEnd: date(2025, 6, 15), wantDue: date(2025, 7, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ComputeCycle(tt.statementDay, tt.dueDay, tt.ref, time.UTC)
			assert.True(t, tt.wantStart.Equal(c.Start), "start: want %s, got %s", tt.wantStart, c.Start)
			assert.True(t, tt.wantEnd.Equal(c.End), "end: want %s, got %s", tt.wantEnd, c.End)
			assert.True(t, tt.wantDue.Equal(c.Due), "due: want %s, got %s", tt.wantDue, c.Due)
		})
	}
}

func TestComputeCycle_InvariantsForAllDays(t *testing.T) {
	refs := []time.Time{
		time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 30, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 31, 18, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	for statementDay := 1; statementDay <= 31; statementDay++ {
		for dueDay := 1; dueDay <= 31; dueDay++ {
			for _, ref := range refs {
				c := ComputeCycle(statementDay, dueDay, ref, time.UTC)
				require.True(t, c.Start.Before(c.End), "stmt=%d due=%d ref=%s", statementDay, dueDay, ref)
				require.False(t, c.Due.Before(c.End), "stmt=%d due=%d ref=%s", statementDay, dueDay, ref)
				require.True(t, c.Contains(ref), "stmt=%d due=%d ref=%s", statementDay, dueDay, ref)
			}
		}
	}
}

func TestCycle_EndIsExclusive(t *testing.T) {
	c := ComputeCycle(28, 15, date(2025, 3, 10), time.UTC)
	assert.True(t, c.Contains(c.Start))
	assert.False(t, c.Contains(c.End))
	assert.True(t, c.Contains(c.End.Add(-time.Nanosecond)))

	next := ComputeCycle(28, 15, c.End, time.UTC)
	assert.True(t, next.Start.Equal(c.End))
}

func TestComputeCycle_ReferenceInOtherZone(t *testing.T) {
	loc := time.FixedZone("PKT", 5*60*60)
	// 2025-03-27 20:00 UTC is already the 28th in PKT.
	ref := time.Date(2025, 3, 27, 20, 0, 0, 0, time.UTC)
	c := ComputeCycle(28, 15, ref, loc)
	assert.Equal(t, 28, c.Start.Day())
	assert.Equal(t, time.March, c.Start.Month())
	assert.Equal(t, loc, c.Start.Location())
}

func TestDaysRemaining(t *testing.T) {
	march := model.NewMonth(2025, time.March, time.UTC)

	assert.Equal(t, 31, DaysRemaining(march, date(2025, 2, 14)))
	assert.Equal(t, 31, DaysRemaining(march, date(2025, 3, 1)))
	assert.Equal(t, 22, DaysRemaining(march, time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, DaysRemaining(march, time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, 0, DaysRemaining(march, date(2025, 4, 1)))
	assert.Equal(t, 0, DaysRemaining(march, date(2026, 1, 1)))
}

func TestDaysRemaining_Monotonic(t *testing.T) {
	feb := model.NewMonth(2024, time.February, time.UTC)
	prev := DaysRemaining(feb, feb.Start().Add(-time.Hour))

	for ref := feb.Start().Add(-time.Hour); ref.Before(feb.End().Add(2 * time.Hour)); ref = ref.Add(3 * time.Hour) {
		got := DaysRemaining(feb, ref)
		require.LessOrEqual(t, got, prev, "ref %s", ref)
		require.GreaterOrEqual(t, got, 0)
		prev = got
	}

	assert.Equal(t, 0, DaysRemaining(feb, feb.End()))
	assert.Equal(t, 1, DaysRemaining(feb, feb.End().Add(-time.Nanosecond)))
}
