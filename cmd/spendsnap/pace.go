package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/pacing"
)

// monthData is what the pacing views read for one month.
type monthData struct {
	month      model.Month
	txns       []model.Transaction
	budget     decimal.Decimal
	money      cli.Money
	categories model.CategoryIndex
	hasBudget  bool
}

func (a *app) loadMonth(ctx context.Context, monthKey string) (*monthData, error) {
	month, err := a.month(monthKey)
	if err != nil {
		return nil, err
	}

	store, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	txns, err := store.GetTransactionsByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	budget, err := store.GetBudget(ctx, month.Key())
	if err != nil {
		return nil, err
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	money, err := a.money(ctx, store)
	if err != nil {
		return nil, err
	}

	return &monthData{
		month:      month,
		txns:       txns,
		budget:     model.BudgetAmount(budget),
		hasBudget:  budget != nil,
		money:      money,
		categories: model.NewCategoryIndex(categories),
	}, nil
}

func paceCmd(a *app) *cobra.Command {
	var monthKey string

	cmd := &cobra.Command{
		Use:   "pace",
		Short: "Compare spending so far with an even pace through the month",
		Long: `Compare cumulative spending with the ideal line that spreads the monthly
budget evenly over the days of the month.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.loadMonth(cmd.Context(), monthKey)
			if err != nil {
				return err
			}
			ref := a.today()

			a.println(cli.FormatTitle(cli.ChartIcon, "Pace for "+d.month.String()))
			if !d.hasBudget {
				a.println(cli.FormatWarning(fmt.Sprintf("No budget set for %s; any spending counts as over pace.", d.month)))
			}

			points := pacing.Series(d.txns, d.month, d.budget, ref)
			if len(points) == 0 {
				a.println(cli.InfoStyle.Render(d.month.String() + " has not started yet."))
				return nil
			}

			last := points[len(points)-1]
			status := "On pace"
			if last.State == pacing.Over {
				status = "Ahead of pace"
			}
			a.printf("%s  spent %s, plan %s by day %d\n",
				cli.StylePace(last.State, status),
				d.money.Format(last.CumulativeActual),
				d.money.Format(pacing.RoundCurrency(last.CumulativeIdeal)),
				last.Day)

			forecast := pacing.Forecast(d.txns, d.budget, d.month, ref)
			if forecast.Over {
				a.println(cli.ErrorStyle.Render("Over the plan by " + d.money.Format(forecast.Difference.Neg())))
			} else {
				a.println(cli.SuccessStyle.Render("Under the plan by " + d.money.Format(forecast.Difference)))
			}

			avg := pacing.DailyAverage(d.txns, d.budget, d.month, ref)
			avgStyle := cli.SuccessStyle
			if avg.Faster() {
				avgStyle = cli.WarningStyle
			}
			a.printf("Daily average %s, planned %s\n",
				avgStyle.Render(d.money.Format(avg.ActualDaily)), d.money.Format(avg.IdealDaily))

			a.println()
			a.println(cli.BoldStyle.Render("Pace bands"))
			for _, band := range pacing.Bands(points) {
				days := fmt.Sprintf("day %d", band.FromDay)
				if band.ToDay != band.FromDay {
					days = fmt.Sprintf("days %d-%d", band.FromDay, band.ToDay)
				}
				a.printf("  %s %s\n", cli.StylePace(band.State, "■"), days)
			}

			a.println()
			a.println(cli.BoldStyle.Render("Daily burn"))
			a.println("  " + renderBurn(pacing.Burn(d.txns, d.budget, d.month)[:len(points)]))
			a.println("  " + cli.SubtleStyle.Render(cli.Sparkline(pacing.DailyTotals(d.txns, d.month)[:len(points)])))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthKey, "month", "", "month as YYYY-MM (default: current month)")
	return cmd
}

func renderBurn(days []pacing.BurnDay) string {
	var b strings.Builder
	for _, d := range days {
		glyph := "●"
		if d.Level == pacing.BurnNone {
			glyph = "·"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(cli.BurnColor(d.Level)).Render(glyph))
	}
	return b.String()
}

func overviewCmd(a *app) *cobra.Command {
	var monthKey string

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show this month at a glance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.loadMonth(cmd.Context(), monthKey)
			if err != nil {
				return err
			}

			ov := pacing.Overview(d.txns, d.budget, d.month, a.today(), a.weekStart())

			var b strings.Builder
			fmt.Fprintf(&b, "Spent      %s\n", d.money.Format(ov.Spent))
			if d.hasBudget {
				fmt.Fprintf(&b, "Budget     %s\n", d.money.Format(ov.Budget))
				remaining := d.money.Format(ov.Remaining)
				if ov.OverBudget {
					remaining = cli.ErrorStyle.Render(remaining)
				}
				fmt.Fprintf(&b, "Remaining  %s\n", remaining)
				b.WriteString(cli.Bar(ov.Progress, 30, progressColor(ov)))
				fmt.Fprintf(&b, " %3.0f%%\n", ov.Progress*100)
			}
			fmt.Fprintf(&b, "Today      %s\n", d.money.Format(ov.SpentToday))
			fmt.Fprintf(&b, "This week  %s\n", d.money.Format(ov.SpentThisWeek))
			fmt.Fprintf(&b, "Days left  %d", ov.DaysRemaining)

			a.println(cli.RenderBox(cli.WalletIcon+" "+d.month.String(), b.String()))
			if !d.hasBudget {
				a.println(cli.InfoStyle.Render(fmt.Sprintf("No budget set. Use 'spendsnap budget set <amount> --month %s'.", d.month.Key())))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&monthKey, "month", "", "month as YYYY-MM (default: current month)")
	return cmd
}

func insightsCmd(a *app) *cobra.Command {
	var monthKey string

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Break a month's spending down by category, merchant, payment and week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.loadMonth(cmd.Context(), monthKey)
			if err != nil {
				return err
			}

			a.println(cli.FormatTitle(cli.ChartIcon, "Insights for "+d.month.String()))
			if len(d.txns) == 0 {
				a.println(cli.InfoStyle.Render("No expenses in " + d.month.String() + "."))
				return nil
			}

			a.println(cli.BoldStyle.Render("By category"))
			for _, ct := range pacing.CategoryTotals(d.txns) {
				var id *int64
				if ct.CategoryID != pacing.Uncategorized {
					catID := ct.CategoryID
					id = &catID
				}
				cat := d.categories.Lookup(id)
				label := model.ResolveName(cat, "Uncategorized")
				if cat != nil && cat.Emoji != "" {
					label = cat.Emoji + " " + label
				}
				color := lipgloss.Color(model.ResolveColor(cat, string(cli.SubtleColor)))
				a.printf("%s %s %3d%%\n",
					cli.LabeledBar(label, float64(ct.Percent)/100, 18, 20, color),
					d.money.Format(ct.Amount), ct.Percent)
			}

			if top, ok := pacing.TopMerchant(d.txns); ok {
				a.println()
				a.printf("%s %s, %s over %s\n", cli.BoldStyle.Render("Top merchant:"),
					top.Merchant, d.money.Format(top.Amount), cli.Pluralize(top.Count, "visit"))
			}

			split := pacing.PaymentSplit(d.txns)
			a.println()
			a.println(cli.BoldStyle.Render("Payment split"))
			a.printf("  Card %s (%d%%)  Cash %s (%d%%)\n",
				d.money.Format(split.Card), split.CardPercent, d.money.Format(split.Cash), split.CashPercent)

			weeks := pacing.WeeklyTotals(d.txns, d.month)
			rows := make([][]string, 0, len(weeks))
			for i, w := range weeks {
				from := i*7 + 1
				to := from + 6
				if i == len(weeks)-1 {
					to = d.month.Days()
				}
				rows = append(rows, []string{fmt.Sprintf("Days %d-%d", from, to), d.money.Format(w)})
			}
			a.println()
			a.println(cli.Table([]string{"Week", "Spent"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthKey, "month", "", "month as YYYY-MM (default: current month)")
	return cmd
}
