package model

import (
	"fmt"
	"strings"
)

// TimeOfDay is a wall-clock time used for daily reminders.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String implements fmt.Stringer.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ReminderLevel controls how often the user is reminded to log expenses.
type ReminderLevel string

// Reminder levels.
const (
	ReminderQuiet      ReminderLevel = "quiet"
	ReminderSubtle     ReminderLevel = "subtle"
	ReminderAggressive ReminderLevel = "aggressive"
)

// ParseReminderLevel validates a reminder level name.
func ParseReminderLevel(s string) (ReminderLevel, error) {
	switch l := ReminderLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case ReminderQuiet, ReminderSubtle, ReminderAggressive:
		return l, nil
	default:
		return "", fmt.Errorf("unknown reminder level %q", s)
	}
}

// Times returns the reminder times of day for the level, in order.
func (l ReminderLevel) Times() []TimeOfDay {
	switch l {
	case ReminderSubtle:
		return []TimeOfDay{{Hour: 16, Minute: 30}, {Hour: 20}}
	case ReminderAggressive:
		return []TimeOfDay{{Hour: 9}, {Hour: 12, Minute: 30}, {Hour: 17}, {Hour: 21}}
	default:
		return nil
	}
}

// Description returns a short human description of the level.
func (l ReminderLevel) Description() string {
	switch l {
	case ReminderSubtle:
		return "1–2 reminders per day"
	case ReminderAggressive:
		return "3–5 reminders per day"
	default:
		return "No reminders"
	}
}

// Settings holds user preferences.
type Settings struct {
	CurrencyCode  string
	ReminderLevel ReminderLevel
	ProUnlocked   bool
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		CurrencyCode:  "USD",
		ReminderLevel: ReminderQuiet,
	}
}
