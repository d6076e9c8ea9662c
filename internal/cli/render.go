package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/Veraticus/spendsnap/internal/currency"
)

// Money formats amounts in one currency and locale.
type Money struct {
	table *currency.Table
	code  string
	tag   language.Tag
}

// NewMoney returns a formatter for code. A nil table means the built-in one.
func NewMoney(t *currency.Table, code string, tag language.Tag) Money {
	if t == nil {
		t = currency.DefaultTable()
	}
	return Money{table: t, code: code, tag: tag}
}

// Format renders amount with the currency symbol.
func (m Money) Format(amount decimal.Decimal) string {
	return m.table.Format(amount, m.code, m.tag)
}

// Code returns the ISO currency code.
func (m Money) Code() string {
	return m.code
}

// Table renders rows under headers without outer borders.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.Render()
}

// Bar renders a fixed-width bar filled to ratio, clamped to [0,1].
func Bar(ratio float64, width int, color lipgloss.Color) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	if width < 4 {
		width = 4
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(SubtleColor)
	return bar.ViewAs(ratio)
}

// LabeledBar renders "label  bar  pct%".
func LabeledBar(label string, ratio float64, labelWidth, barWidth int, color lipgloss.Color) string {
	pct := lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%3.0f%%", clamp(ratio)*100))
	return fmt.Sprintf("%-*s ", labelWidth, label) + Bar(ratio, barWidth, color) + " " + pct
}

func clamp(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// Sparkline draws one block character per value, scaled to the maximum.
func Sparkline(values []decimal.Decimal) string {
	blocks := []rune("▁▂▃▄▅▆▇█")

	peak := decimal.Zero
	for _, v := range values {
		peak = decimal.Max(peak, v)
	}

	var b strings.Builder
	for _, v := range values {
		if !peak.IsPositive() || !v.IsPositive() {
			b.WriteRune(' ')
			continue
		}
		idx := int(v.Div(peak).InexactFloat64() * float64(len(blocks)-1))
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// FormatDate renders a date the way listings show it.
func FormatDate(t time.Time) string {
	return t.Format("Mon Jan 2")
}

// Pluralize returns word with an "s" unless n is one.
func Pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
