package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spendsnap/internal/common"
)

// DateOrder says how to read ambiguous numeric dates such as 03/04/2025.
type DateOrder string

// Supported date orders.
const (
	OrderMDY DateOrder = "mdy"
	OrderDMY DateOrder = "dmy"
	OrderYMD DateOrder = "ymd"
)

// ParseDateOrder validates a date order name.
func ParseDateOrder(s string) (DateOrder, error) {
	switch o := DateOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case OrderMDY, OrderDMY, OrderYMD:
		return o, nil
	case "":
		return OrderMDY, nil
	default:
		return "", fmt.Errorf("%w: unknown date order %q", common.ErrInvalidConfig, s)
	}
}

// Weights tune the total heuristic. A line scores Base, plus KeywordBonus if
// it mentions a total keyword, minus LineItemPenalty if it looks like an item row.
type Weights struct {
	Base            int
	KeywordBonus    int
	LineItemPenalty int
}

// DefaultWeights returns the standard weights.
func DefaultWeights() Weights {
	return Weights{Base: 1, KeywordBonus: 2, LineItemPenalty: 2}
}

// Config configures an Extractor.
type Config struct {
	Location         *time.Location
	DateOrder        DateOrder
	CurrencyMarkers  []string
	Weights          Weights
	DecimalSeparator rune
}

// DefaultConfig returns a configuration for receipts using a decimal point.
func DefaultConfig() Config {
	return Config{
		Weights:          DefaultWeights(),
		DecimalSeparator: '.',
		DateOrder:        OrderMDY,
		Location:         time.Local,
		CurrencyMarkers:  []string{"PKR", "Rs.", "Rs", "USD", "$", "EUR", "€", "GBP", "£", "INR", "₹"},
	}
}

func (c Config) validate() error {
	if c.DecimalSeparator != '.' && c.DecimalSeparator != ',' {
		return fmt.Errorf("%w: decimal separator must be '.' or ',', got %q", common.ErrInvalidConfig, c.DecimalSeparator)
	}
	if _, err := ParseDateOrder(string(c.DateOrder)); err != nil {
		return err
	}
	return nil
}
