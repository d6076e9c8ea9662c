package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/common"
)

// CardColor is the display palette of a card.
type CardColor string

// Card palettes.
const (
	CardSilver       CardColor = "silver"
	CardGold         CardColor = "gold"
	CardGraphite     CardColor = "graphite"
	CardRoyalBlue    CardColor = "royalBlue"
	CardDeepPurple   CardColor = "deepPurple"
	CardMidnightBlue CardColor = "midnightBlue"
	CardRoseGold     CardColor = "roseGold"
	CardPlatinum     CardColor = "platinum"
)

var cardAccents = map[CardColor]string{
	CardSilver:       "#B8C0CC",
	CardGold:         "#C89B3C",
	CardGraphite:     "#1C212B",
	CardRoyalBlue:    "#3C56D6",
	CardDeepPurple:   "#5B45C6",
	CardMidnightBlue: "#0E1A3A",
	CardRoseGold:     "#C58C7B",
	CardPlatinum:     "#DCE1E7",
}

// ParseCardColor resolves a stored color name, falling back to royal blue.
func ParseCardColor(s string) CardColor {
	for c := range cardAccents {
		if strings.EqualFold(string(c), s) {
			return c
		}
	}
	return CardRoyalBlue
}

// Accent returns the accent hex color of the palette.
func (c CardColor) Accent() string {
	if hex, ok := cardAccents[c]; ok {
		return hex
	}
	return cardAccents[CardRoyalBlue]
}

// CardProfile is a credit card with its billing configuration. StatementDay
// and DueDay are nominal days of month and may exceed the length of a month.
type CardProfile struct {
	Name         string
	Color        CardColor
	CycleLimit   decimal.Decimal
	ID           int64
	StatementDay int
	DueDay       int
}

// NewCardProfile validates the nominal days and builds a card profile.
func NewCardProfile(name string, cycleLimit decimal.Decimal, statementDay, dueDay int) (CardProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CardProfile{}, fmt.Errorf("card name is required")
	}
	if err := ValidateDay(statementDay); err != nil {
		return CardProfile{}, fmt.Errorf("statement day: %w", err)
	}
	if err := ValidateDay(dueDay); err != nil {
		return CardProfile{}, fmt.Errorf("due day: %w", err)
	}
	if cycleLimit.IsNegative() {
		return CardProfile{}, fmt.Errorf("cycle limit: %w", common.ErrNegativeAmount)
	}

	return CardProfile{
		Name:         name,
		CycleLimit:   cycleLimit,
		StatementDay: statementDay,
		DueDay:       dueDay,
		Color:        CardRoyalBlue,
	}, nil
}

// ValidateDay checks that d is a nominal day of month.
func ValidateDay(d int) error {
	if d < 1 || d > 31 {
		return fmt.Errorf("%w: got %d", common.ErrInvalidDay, d)
	}
	return nil
}
