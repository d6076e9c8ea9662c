// Package model defines the core data structures for the spendsnap application.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/common"
)

// BudgetTarget is the spending target for one month.
type BudgetTarget struct {
	CreatedAt time.Time
	ID        string
	MonthKey  string
	Note      string
	Amount    decimal.Decimal
}

// NewBudgetTarget validates and builds a monthly budget.
func NewBudgetTarget(monthKey string, amount decimal.Decimal, note string) (BudgetTarget, error) {
	if _, err := time.Parse(MonthKeyLayout, monthKey); err != nil {
		return BudgetTarget{}, fmt.Errorf("%w: %q", common.ErrInvalidMonthKey, monthKey)
	}
	if amount.IsNegative() {
		return BudgetTarget{}, fmt.Errorf("%w: %s", common.ErrNegativeAmount, amount)
	}
	return BudgetTarget{
		MonthKey: monthKey,
		Amount:   amount,
		Note:     note,
	}, nil
}

// BudgetAmount resolves an optional budget to its amount, or zero when absent.
func BudgetAmount(b *BudgetTarget) decimal.Decimal {
	if b == nil {
		return decimal.Zero
	}
	return b.Amount
}

// CategoryBudget is a per-category spending target for one month.
type CategoryBudget struct {
	MonthKey   string
	Amount     decimal.Decimal
	CategoryID int64
}
