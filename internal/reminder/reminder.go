// Package reminder plans the daily "log your expenses" reminders.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spendsnap/internal/model"
)

// Scheduler delivers reminders at fixed times of day. Delivery itself is
// left to the implementation.
type Scheduler interface {
	Schedule(ctx context.Context, times []model.TimeOfDay) error
	CancelAll(ctx context.Context) error
}

// Apply replaces any scheduled reminders with the plan for level. The quiet
// level only cancels.
func Apply(ctx context.Context, s Scheduler, level model.ReminderLevel) error {
	if err := s.CancelAll(ctx); err != nil {
		return fmt.Errorf("failed to cancel reminders: %w", err)
	}

	times := level.Times()
	if len(times) == 0 {
		slog.Debug("Reminders disabled", "level", level)
		return nil
	}

	if err := s.Schedule(ctx, times); err != nil {
		return fmt.Errorf("failed to schedule %s reminders: %w", level, err)
	}

	slog.Info("Scheduled reminders", "level", level, "count", len(times))
	return nil
}

// Next returns the first reminder strictly after now in now's location.
func Next(level model.ReminderLevel, now time.Time) (time.Time, bool) {
	times := level.Times()
	if len(times) == 0 {
		return time.Time{}, false
	}

	for offset := 0; offset <= 1; offset++ {
		day := now.AddDate(0, 0, offset)
		for _, tod := range times {
			at := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour, tod.Minute, 0, 0, now.Location())
			if at.After(now) {
				return at, true
			}
		}
	}
	return time.Time{}, false
}

// Plan lists the next n reminders after now.
func Plan(level model.ReminderLevel, now time.Time, n int) []time.Time {
	var out []time.Time
	for len(out) < n {
		next, ok := Next(level, now)
		if !ok {
			break
		}
		out = append(out, next)
		now = next
	}
	return out
}

// PrintScheduler writes the schedule through a callback instead of
// delivering notifications.
type PrintScheduler struct {
	Printf func(format string, args ...any)
}

// Schedule implements Scheduler.
func (p PrintScheduler) Schedule(_ context.Context, times []model.TimeOfDay) error {
	for _, t := range times {
		p.Printf("  daily at %s\n", t)
	}
	return nil
}

// CancelAll implements Scheduler.
func (p PrintScheduler) CancelAll(_ context.Context) error {
	return nil
}
