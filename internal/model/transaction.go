package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/common"
)

// PaymentMethod is how an expense was paid.
type PaymentMethod string

const (
	// MethodCash represents cash payments.
	MethodCash PaymentMethod = "cash"
	// MethodCard represents card payments.
	MethodCard PaymentMethod = "card"
)

// ParsePaymentMethod converts user input into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case MethodCash, "":
		return MethodCash, nil
	case MethodCard:
		return MethodCard, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrInvalidMethod, s)
	}
}

// Title returns the display title of the method.
func (m PaymentMethod) Title() string {
	if m == MethodCard {
		return "Card"
	}
	return "Cash"
}

// Transaction represents a single expense.
type Transaction struct {
	Date       time.Time
	CategoryID *int64
	CardID     *int64
	ID         string
	Merchant   string
	Method     PaymentMethod
	MonthKey   string
	Amount     decimal.Decimal
}

// NewTransaction builds a validated expense. The month key is derived from the date.
func NewTransaction(amount decimal.Decimal, date time.Time, merchant string, method PaymentMethod) (Transaction, error) {
	if amount.IsNegative() {
		return Transaction{}, fmt.Errorf("%w: %s", common.ErrNegativeAmount, amount)
	}
	if date.IsZero() {
		return Transaction{}, common.ErrMissingDate
	}
	if method == "" {
		method = MethodCash
	}

	return Transaction{
		ID:       uuid.NewString(),
		Amount:   amount,
		Date:     date,
		Merchant: strings.TrimSpace(merchant),
		Method:   method,
		MonthKey: MonthKey(date),
	}, nil
}

// WithCategory returns a copy assigned to the given category.
func (t Transaction) WithCategory(id int64) Transaction {
	t.CategoryID = &id
	return t
}

// WithCard returns a copy charged to the given card.
func (t Transaction) WithCard(id int64) Transaction {
	t.CardID = &id
	t.Method = MethodCard
	return t
}

// Hash creates a stable key for duplicate detection.
func (t Transaction) Hash() string {
	data := fmt.Sprintf("%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		strings.ToLower(t.Merchant))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Total sums the amounts of the given transactions.
func Total(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
	}
	return total
}
