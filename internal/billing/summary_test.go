package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendsnap/internal/model"
)

func cardTxn(t *testing.T, cardID int64, amount string, when time.Time) model.Transaction {
	t.Helper()
	txn, err := model.NewTransaction(decimal.RequireFromString(amount), when, "shop", model.MethodCard)
	require.NoError(t, err)
	return txn.WithCard(cardID)
}

func TestSummarize(t *testing.T) {
	card, err := model.NewCardProfile("Alfalah", decimal.NewFromInt(1000), 28, 15)
	require.NoError(t, err)
	card.ID = 1

	ref := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cash, err := model.NewTransaction(decimal.NewFromInt(999), date(2025, 3, 1), "cash", model.MethodCash)
	require.NoError(t, err)

	txns := []model.Transaction{
		cardTxn(t, 1, "100.25", date(2025, 2, 28)),                          // first instant of cycle
		cardTxn(t, 1, "49.75", time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)), // inside
		cardTxn(t, 1, "500", date(2025, 3, 28)),                            // next cycle
		cardTxn(t, 1, "70", date(2025, 2, 27)),                             // previous cycle
		cardTxn(t, 2, "300", date(2025, 3, 2)),                             // other card
		cash,
	}

	s := Summarize(card, txns, ref, time.UTC)
	assert.True(t, s.Spent.Equal(decimal.NewFromInt(150)), "spent %s", s.Spent)
	assert.True(t, s.Available.Equal(decimal.NewFromInt(850)))
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 0.15, s.Utilization, 1e-9)
	assert.True(t, date(2025, 4, 15).Equal(s.Cycle.Due))
	assert.Equal(t, 36, s.DaysToDue)
}

func TestSummarize_ZeroLimitAndOverspend(t *testing.T) {
	card, err := model.NewCardProfile("Zero", decimal.Zero, 1, 20)
	require.NoError(t, err)
	card.ID = 9

	ref := date(2025, 5, 10)
	s := Summarize(card, []model.Transaction{cardTxn(t, 9, "10", date(2025, 5, 2))}, ref, time.UTC)
	assert.Zero(t, s.Utilization)
	assert.True(t, s.Available.Equal(decimal.NewFromInt(-10)))

	card.CycleLimit = decimal.NewFromInt(5)
	s = Summarize(card, []model.Transaction{cardTxn(t, 9, "10", date(2025, 5, 2))}, ref, time.UTC)
	assert.Equal(t, 1.0, s.Utilization)
}

func TestSortSummaries(t *testing.T) {
	summaries := []CardSummary{
		{Card: model.CardProfile{Name: "late"}, Cycle: Cycle{Due: date(2025, 4, 20)}, Spent: decimal.NewFromInt(5)},
		{Card: model.CardProfile{Name: "early-small"}, Cycle: Cycle{Due: date(2025, 4, 5)}, Spent: decimal.NewFromInt(10)},
		{Card: model.CardProfile{Name: "early-big"}, Cycle: Cycle{Due: date(2025, 4, 5)}, Spent: decimal.NewFromInt(90)},
	}

	SortSummaries(summaries)

	names := []string{summaries[0].Card.Name, summaries[1].Card.Name, summaries[2].Card.Name}
	assert.Equal(t, []string{"early-big", "early-small", "late"}, names)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, daysBetween(date(2025, 4, 15), date(2025, 4, 15)))
	assert.Equal(t, 0, daysBetween(date(2025, 4, 20), date(2025, 4, 15)))
	assert.Equal(t, 1, daysBetween(time.Date(2025, 4, 14, 23, 0, 0, 0, time.UTC), date(2025, 4, 15)))
}
