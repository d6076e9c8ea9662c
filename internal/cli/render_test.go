package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Veraticus/spendsnap/internal/pacing"
)

func TestMoney_Format(t *testing.T) {
	m := NewMoney(nil, "USD", language.AmericanEnglish)
	assert.Equal(t, "$1,234.50", m.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "USD", m.Code())

	pkr := NewMoney(nil, "PKR", language.AmericanEnglish)
	assert.Equal(t, "Rs42,000.00", pkr.Format(decimal.NewFromInt(42000)))
}

func TestTable(t *testing.T) {
	out := Table([]string{"Date", "Amount"}, [][]string{
		{"Mon Mar 3", "$12.00"},
		{"Tue Mar 4", "$7.50"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, out, "Date")
	assert.Contains(t, out, "Tue Mar 4")
	assert.Contains(t, out, "$7.50")
	assert.Less(t, strings.Index(out, "Mon Mar 3"), strings.Index(out, "Tue Mar 4"))
}

func TestBar_Width(t *testing.T) {
	for _, ratio := range []float64{-1, 0, 0.5, 1, 3} {
		bar := Bar(ratio, 20, SuccessColor)
		assert.Equal(t, 20, lipgloss.Width(bar), "ratio %v", ratio)
	}
	assert.Equal(t, 4, lipgloss.Width(Bar(0.5, 1, SuccessColor)))
}

func TestLabeledBar(t *testing.T) {
	out := LabeledBar("Groceries", 0.42, 12, 10, WarningColor)
	assert.True(t, strings.HasPrefix(out, "Groceries    "))
	assert.Contains(t, out, " 42%")

	assert.Contains(t, LabeledBar("x", 1.7, 1, 10, ErrorColor), "100%")
}

func TestSparkline(t *testing.T) {
	values := []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(50),
		decimal.NewFromInt(100),
	}
	assert.Equal(t, " ▄█", Sparkline(values))
	assert.Equal(t, "  ", Sparkline([]decimal.Decimal{decimal.Zero, decimal.Zero}))
	assert.Empty(t, Sparkline(nil))
}

func TestColors(t *testing.T) {
	assert.Equal(t, ErrorColor, PaceColor(pacing.Over))
	assert.Equal(t, SuccessColor, PaceColor(pacing.Under))

	assert.Equal(t, ErrorColor, BurnColor(pacing.BurnAbove))
	assert.Equal(t, WarningColor, BurnColor(pacing.BurnOnTarget))
	assert.Equal(t, SuccessColor, BurnColor(pacing.BurnBelow))
	assert.Equal(t, SubtleColor, BurnColor(pacing.BurnNone))

	assert.Equal(t, SuccessColor, UtilizationColor(0.2))
	assert.Equal(t, WarningColor, UtilizationColor(0.8))
	assert.Equal(t, ErrorColor, UtilizationColor(1.05))
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), SuccessIcon+" saved")
	assert.Contains(t, FormatError("failed"), ErrorIcon+" failed")
	assert.Contains(t, FormatTitle(ChartIcon, "Pace"), "Pace")
	assert.Contains(t, RenderBox("March", "body"), "body")
	assert.Equal(t, "1 expense", Pluralize(1, "expense"))
	assert.Equal(t, "3 expenses", Pluralize(3, "expense"))
	assert.Equal(t, "Mon Mar 3", FormatDate(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)))
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader(tt.input), &out)

		got, err := p.Confirm(context.Background(), "Delete expense?")
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
		assert.Contains(t, out.String(), "Delete expense? [y/N]")
	}
}

func TestNewImportProgress(t *testing.T) {
	var out bytes.Buffer
	bar := NewImportProgress(&out, 2, "Importing")
	require.NoError(t, bar.Add(1))
	require.NoError(t, bar.Add(1))
	assert.True(t, bar.IsFinished())
}
