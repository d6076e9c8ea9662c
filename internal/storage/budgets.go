package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Veraticus/spendsnap/internal/model"
)

// SetBudget creates or replaces the budget of budget.MonthKey. A month has at
// most one budget; the existing id is kept on update.
func (s *SQLiteStorage) SetBudget(ctx context.Context, budget *model.BudgetTarget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, month_key, amount, note)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(month_key) DO UPDATE SET
			amount = excluded.amount,
			note = excluded.note
	`, budget.ID, budget.MonthKey, budget.Amount.String(), budget.Note)
	if err != nil {
		return fmt.Errorf("failed to save budget for %s: %w", budget.MonthKey, err)
	}

	stored, err := s.GetBudget(ctx, budget.MonthKey)
	if err != nil {
		return err
	}
	if stored != nil {
		*budget = *stored
	}
	return nil
}

// GetBudget returns the budget for monthKey, or nil when none was set.
func (s *SQLiteStorage) GetBudget(ctx context.Context, monthKey string) (*model.BudgetTarget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(monthKey, "monthKey"); err != nil {
		return nil, err
	}

	var (
		b         model.BudgetTarget
		createdAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, month_key, amount, note, created_at
		FROM budgets
		WHERE month_key = ?
	`, monthKey).Scan(&b.ID, &b.MonthKey, &b.Amount, &b.Note, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // No budget set for the month
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	if createdAt.Valid {
		b.CreatedAt = createdAt.Time
	}
	return &b, nil
}
