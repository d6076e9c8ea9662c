package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/Veraticus/spendsnap/internal/model"
)

const (
	settingCurrency    = "currency_code"
	settingReminder    = "reminder_level"
	settingProUnlocked = "pro_unlocked"
)

// GetSettings returns the stored settings, filling gaps with defaults.
func (s *SQLiteStorage) GetSettings(ctx context.Context) (model.Settings, error) {
	settings := model.DefaultSettings()
	if err := validateContext(ctx); err != nil {
		return settings, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return settings, fmt.Errorf("failed to query settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, fmt.Errorf("failed to scan setting: %w", err)
		}

		switch key {
		case settingCurrency:
			settings.CurrencyCode = value
		case settingReminder:
			if level, err := model.ParseReminderLevel(value); err == nil {
				settings.ReminderLevel = level
			}
		case settingProUnlocked:
			settings.ProUnlocked, _ = strconv.ParseBool(value)
		}
	}
	if err := rows.Err(); err != nil {
		return settings, fmt.Errorf("error iterating settings: %w", err)
	}

	return settings, nil
}

// SaveSettings stores every setting.
func (s *SQLiteStorage) SaveSettings(ctx context.Context, settings model.Settings) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(settings.CurrencyCode, "currencyCode"); err != nil {
		return err
	}
	if _, err := model.ParseReminderLevel(string(settings.ReminderLevel)); err != nil {
		return err
	}

	values := map[string]string{
		settingCurrency:    settings.CurrencyCode,
		settingReminder:    string(settings.ReminderLevel),
		settingProUnlocked: strconv.FormatBool(settings.ProUnlocked),
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for key, value := range values {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO settings (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
				return fmt.Errorf("failed to save setting %s: %w", key, err)
			}
		}
		return nil
	})
}
