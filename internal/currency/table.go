// Package currency maps ISO 4217 codes to display symbols and formats money
// for a locale.
package currency

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Veraticus/spendsnap/internal/common"
)

var defaultSymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"PKR": "Rs",
	"INR": "₹",
	"JPY": "¥",
	"CNY": "¥",
	"AED": "AED",
	"SAR": "SAR",
	"CAD": "CA$",
	"AUD": "A$",
	"CHF": "CHF",
	"TRY": "₺",
	"BDT": "৳",
}

// Table is a lookup of currency symbols keyed by ISO code.
type Table struct {
	symbols map[string]string
	mu      sync.RWMutex
}

// NewTable builds a table from code to symbol entries. Every code must be a
// valid ISO 4217 code.
func NewTable(entries map[string]string) (*Table, error) {
	t := &Table{symbols: make(map[string]string, len(entries))}
	for code, symbol := range entries {
		if err := t.Set(code, symbol); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// DefaultTable returns a table holding the built-in symbols.
func DefaultTable() *Table {
	t, err := NewTable(defaultSymbols)
	if err != nil {
		panic(fmt.Sprintf("built-in currency table is invalid: %v", err))
	}
	return t
}

// Normalize validates an ISO code and returns it in canonical form.
func Normalize(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: unknown currency code %q", common.ErrInvalidConfig, code)
	}
	return unit.String(), nil
}

// Set adds or replaces the symbol for code.
func (t *Table) Set(code, symbol string) error {
	canonical, err := Normalize(code)
	if err != nil {
		return err
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return fmt.Errorf("%w: empty symbol for %s", common.ErrInvalidConfig, canonical)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.symbols[canonical] = symbol
	return nil
}

// Symbol returns the symbol for code, or the upper-cased code itself when
// the table has no entry.
func (t *Table) Symbol(code string) string {
	key := strings.ToUpper(strings.TrimSpace(code))

	t.mu.RLock()
	defer t.mu.RUnlock()
	if s, ok := t.symbols[key]; ok {
		return s
	}
	return key
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.symbols)
}

// Reset removes every entry.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.symbols = make(map[string]string)
}

// Format renders amount with the symbol for code, rounded half away from
// zero to two decimals and grouped the way tag writes numbers.
func (t *Table) Format(amount decimal.Decimal, code string, tag language.Tag) string {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return "-" + t.Symbol(code) + FormatNumber(rounded.Neg(), tag)
	}
	return t.Symbol(code) + FormatNumber(rounded, tag)
}

// FormatNumber renders amount with two decimals using the separators of tag.
// The digits are exact; only the separators come from the locale.
func FormatNumber(amount decimal.Decimal, tag language.Tag) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).Shift(2).IntPart()

	p := message.NewPrinter(tag)
	intPart := whole.String()
	if n := whole.BigInt(); n.IsInt64() {
		intPart = p.Sprint(number.Decimal(n.Int64()))
	}
	return sign + intPart + decimalSeparator(p) + p.Sprint(number.Decimal(cents, number.MinIntegerDigits(2)))
}

// decimalSeparator returns what p writes between the integer and fraction.
func decimalSeparator(p *message.Printer) string {
	r := []rune(p.Sprint(number.Decimal(1.5, number.MinFractionDigits(1))))
	if len(r) < 3 {
		return "."
	}
	return string(r[1 : len(r)-1])
}

// ParseTag parses a BCP 47 locale such as "en-US", defaulting to American
// English when s is empty.
func ParseTag(s string) (language.Tag, error) {
	if strings.TrimSpace(s) == "" {
		return language.AmericanEnglish, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("%w: locale %q: %v", common.ErrInvalidConfig, s, err)
	}
	return tag, nil
}
