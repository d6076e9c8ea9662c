package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/model"
)

const categoryColumns = `id, name, emoji, color_hex, monthly_budget, is_system_other, created_at`

func scanCategory(row rowScanner) (model.Category, error) {
	var (
		cat       model.Category
		createdAt sql.NullTime
	)
	if err := row.Scan(&cat.ID, &cat.Name, &cat.Emoji, &cat.ColorHex, &cat.MonthlyBudget, &cat.IsSystemOther, &createdAt); err != nil {
		return model.Category{}, err
	}
	if createdAt.Valid {
		cat.CreatedAt = createdAt.Time
	}
	return cat, nil
}

// ListCategories returns all categories with the system "Other" category last.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		ORDER BY is_system_other, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns a category by its case-insensitive name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	cat, err := scanCategory(s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE name = ?`, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// CreateCategory stores a new category and sets its ID.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	return s.createCategory(ctx, s.db, category)
}

func (s *SQLiteStorage) createCategory(ctx context.Context, q queryable, category *model.Category) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO categories (name, emoji, color_hex, monthly_budget, is_system_other)
		VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(category.Name),
		category.Emoji,
		category.ColorHex,
		category.MonthlyBudget.String(),
		category.IsSystemOther,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, category.Name)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get category ID: %w", err)
	}
	category.ID = id
	return nil
}

// SeedDefaultCategories inserts the default categories that are missing and
// returns how many were added.
func (s *SQLiteStorage) SeedDefaultCategories(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	added := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, cat := range model.DefaultCategories() {
			var exists int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE name = ?`, cat.Name).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check category %q: %w", cat.Name, err)
			}
			if exists > 0 {
				continue
			}
			if err := s.createCategory(ctx, tx, &cat); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Seeded default categories", "added", added)
	return added, nil
}

// SetCategoryBudget creates or replaces a category's budget for one month.
func (s *SQLiteStorage) SetCategoryBudget(ctx context.Context, budget model.CategoryBudget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := model.NewBudgetTarget(budget.MonthKey, budget.Amount, ""); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBudget, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_budgets (category_id, month_key, amount)
		VALUES (?, ?, ?)
		ON CONFLICT(category_id, month_key) DO UPDATE SET amount = excluded.amount`,
		budget.CategoryID, budget.MonthKey, budget.Amount.String())
	if err != nil {
		return fmt.Errorf("failed to save category budget: %w", err)
	}
	return nil
}

// GetCategoryBudgets returns the category budgets of one month.
func (s *SQLiteStorage) GetCategoryBudgets(ctx context.Context, monthKey string) ([]model.CategoryBudget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(monthKey, "monthKey"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, month_key, amount
		FROM category_budgets
		WHERE month_key = ?
		ORDER BY category_id`, monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query category budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.CategoryBudget
	for rows.Next() {
		var b model.CategoryBudget
		if err := rows.Scan(&b.CategoryID, &b.MonthKey, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan category budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category budgets: %w", err)
	}
	return budgets, nil
}
