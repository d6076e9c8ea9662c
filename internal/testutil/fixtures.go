package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/model"
)

// ExpenseBuilder builds expenses for tests.
//
// Example:
//
//	txn := testutil.Expense("12.50").On(day).At("Cafe").OnCard(card.ID).Build(t)
type ExpenseBuilder struct {
	date       time.Time
	categoryID *int64
	cardID     *int64
	merchant   string
	method     model.PaymentMethod
	amount     string
}

// Expense starts a cash expense of amount dated at noon UTC on 2025-03-01.
func Expense(amount string) *ExpenseBuilder {
	return &ExpenseBuilder{
		amount: amount,
		date:   time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
		method: model.MethodCash,
	}
}

// On sets the expense date.
func (b *ExpenseBuilder) On(date time.Time) *ExpenseBuilder {
	b.date = date
	return b
}

// At sets the merchant.
func (b *ExpenseBuilder) At(merchant string) *ExpenseBuilder {
	b.merchant = merchant
	return b
}

// In assigns a category.
func (b *ExpenseBuilder) In(categoryID int64) *ExpenseBuilder {
	b.categoryID = &categoryID
	return b
}

// OnCard charges the expense to a card.
func (b *ExpenseBuilder) OnCard(cardID int64) *ExpenseBuilder {
	b.cardID = &cardID
	b.method = model.MethodCard
	return b
}

// Build validates and returns the expense, failing the test on error.
func (b *ExpenseBuilder) Build(t *testing.T) model.Transaction {
	t.Helper()

	amount, err := decimal.NewFromString(b.amount)
	if err != nil {
		t.Fatalf("invalid amount %q: %v", b.amount, err)
	}
	txn, err := model.NewTransaction(amount, b.date, b.merchant, b.method)
	if err != nil {
		t.Fatalf("invalid expense: %v", err)
	}
	if b.categoryID != nil {
		txn = txn.WithCategory(*b.categoryID)
	}
	if b.cardID != nil {
		txn = txn.WithCard(*b.cardID)
	}
	return txn
}
