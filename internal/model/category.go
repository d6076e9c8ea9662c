package model

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FallbackColor is used for expenses without a category.
const FallbackColor = "#CCCCCC"

// Category represents a spending category.
type Category struct {
	CreatedAt     time.Time
	Name          string
	Emoji         string
	ColorHex      string
	MonthlyBudget decimal.Decimal
	ID            int64
	IsSystemOther bool
}

// DefaultCategories returns the categories seeded into a new database.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Dine out", Emoji: "🍽️", ColorHex: "#F97316"},
		{Name: "Groceries", Emoji: "🛒", ColorHex: "#22C55E"},
		{Name: "Transport", Emoji: "🚗", ColorHex: "#3B82F6"},
		{Name: "Health", Emoji: "🩺", ColorHex: "#EF4444"},
		{Name: "Bills", Emoji: "🧾", ColorHex: "#4F46E5"},
		{Name: "Shopping", Emoji: "🛍️", ColorHex: "#EC4899"},
		{Name: "Entertainment", Emoji: "🎬", ColorHex: "#8B5CF6"},
		{Name: "Education", Emoji: "🎓", ColorHex: "#06B6D4"},
		{Name: "Utilities", Emoji: "💡", ColorHex: "#EAB308"},
		{Name: "Other", Emoji: "📦", ColorHex: FallbackColor, IsSystemOther: true},
	}
}

// ResolveColor returns the category's color, or fallback when the category
// is absent or has no usable color.
func ResolveColor(cat *Category, fallback string) string {
	if cat == nil {
		return fallback
	}
	digits := strings.TrimPrefix(strings.TrimSpace(cat.ColorHex), "#")
	if len(digits) != 6 {
		return fallback
	}
	if _, err := hex.DecodeString(digits); err != nil {
		return fallback
	}
	return "#" + strings.ToUpper(digits)
}

// ResolveName returns the category's name, or fallback when absent.
func ResolveName(cat *Category, fallback string) string {
	if cat == nil || strings.TrimSpace(cat.Name) == "" {
		return fallback
	}
	return cat.Name
}

// CategoryIndex maps category ids to categories for lookups during rendering.
type CategoryIndex map[int64]Category

// NewCategoryIndex indexes categories by id.
func NewCategoryIndex(categories []Category) CategoryIndex {
	idx := make(CategoryIndex, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}

// Lookup returns the category for an optional reference, or nil.
func (idx CategoryIndex) Lookup(id *int64) *Category {
	if id == nil {
		return nil
	}
	c, ok := idx[*id]
	if !ok {
		return nil
	}
	return &c
}
