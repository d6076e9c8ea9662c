package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsnap/internal/billing"
	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/service"
)

func cardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage credit cards and their billing cycles",
	}

	cmd.AddCommand(addCardCmd(a))
	cmd.AddCommand(listCardsCmd(a))
	cmd.AddCommand(deleteCardCmd(a))
	cmd.AddCommand(cardStatusCmd(a))

	return cmd
}

func addCardCmd(a *app) *cobra.Command {
	var (
		limit        string
		statementDay int
		dueDay       int
		color        string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a credit card",
		Long: `Add a credit card with its statement day and payment due day.

Days are nominal days of month (1-31). In shorter months they fall on the
last day of the month. A due day on or before the statement day is in the
month after the statement.`,
		Example: `  spendsnap card add Alfalah --limit 150000 --statement-day 20 --due-day 5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(limit)
			if err != nil {
				return err
			}
			card, err := model.NewCardProfile(args[0], amount, statementDay, dueDay)
			if err != nil {
				return common.NewUserError("invalid card", err)
			}
			if color != "" {
				card.Color = model.ParseCardColor(color)
			}

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.CreateCard(ctx, &card); err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return common.NewUserError(fmt.Sprintf("a card named %q already exists", card.Name), err)
				}
				return fmt.Errorf("failed to save card: %w", err)
			}

			cycle := billing.CycleFor(card, a.today(), a.loc)
			a.println(cli.FormatSuccess(fmt.Sprintf("Added %s. Current cycle %s to %s, due %s",
				card.Name, cli.FormatDate(cycle.Start), cli.FormatDate(cycle.End.AddDate(0, 0, -1)), cli.FormatDate(cycle.Due))))
			return nil
		},
	}

	cmd.Flags().StringVar(&limit, "limit", "0", "spending limit per billing cycle")
	cmd.Flags().IntVar(&statementDay, "statement-day", 1, "day of month the statement closes")
	cmd.Flags().IntVar(&dueDay, "due-day", 1, "day of month the payment is due")
	cmd.Flags().StringVar(&color, "color", "", "display color (silver, gold, graphite, royalBlue, deepPurple, midnightBlue, roseGold, platinum)")

	return cmd
}

func listCardsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List credit cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cards, err := store.ListCards(ctx)
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				a.println(cli.InfoStyle.Render("No cards yet. Use 'spendsnap card add <name>' to add one."))
				return nil
			}

			money, err := a.money(ctx, store)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(cards))
			for _, c := range cards {
				rows = append(rows, []string{
					lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color.Accent())).Render("■") + " " + c.Name,
					money.Format(c.CycleLimit),
					fmt.Sprintf("%d", c.StatementDay),
					fmt.Sprintf("%d", c.DueDay),
				})
			}

			a.println(cli.FormatTitle(cli.CardIcon, "Cards"))
			a.println(cli.Table([]string{"Card", "Limit", "Statement", "Due"}, rows))
			return nil
		},
	}
}

func deleteCardCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a credit card",
		Long:  `Delete a card. Expenses charged to it are kept without a card.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			card, err := store.GetCardByName(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("no card named %q", args[0]), err)
			}
			if err != nil {
				return err
			}

			if !yes {
				ok, err := cli.NewPrompter(a.in, a.out).Confirm(ctx, fmt.Sprintf("Delete card %s?", card.Name))
				if err != nil {
					return err
				}
				if !ok {
					a.println(cli.InfoStyle.Render("Nothing deleted."))
					return nil
				}
			}

			if err := store.DeleteCard(ctx, card.ID); err != nil {
				return fmt.Errorf("failed to delete card: %w", err)
			}
			a.println(cli.FormatSuccess("Deleted card " + card.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func cardStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show spending in each card's current billing cycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cards, err := store.ListCards(ctx)
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				a.println(cli.InfoStyle.Render("No cards yet. Use 'spendsnap card add <name>' to add one."))
				return nil
			}

			money, err := a.money(ctx, store)
			if err != nil {
				return err
			}

			ref := a.today()
			summaries := make([]billing.CardSummary, 0, len(cards))
			for _, card := range cards {
				cycle := billing.CycleFor(card, ref, a.loc)
				id := card.ID
				txns, err := store.GetTransactions(ctx, service.TransactionFilter{
					CardID: &id,
					Start:  cycle.Start,
					End:    cycle.End,
				})
				if err != nil {
					return fmt.Errorf("failed to load %s expenses: %w", card.Name, err)
				}
				summaries = append(summaries, billing.Summarize(card, txns, ref, a.loc))
			}
			billing.SortSummaries(summaries)

			a.println(cli.FormatTitle(cli.CardIcon, "Card cycles"))
			for _, s := range summaries {
				a.println(renderCardSummary(s, money))
			}
			return nil
		},
	}
}

func renderCardSummary(s billing.CardSummary, money cli.Money) string {
	accent := lipgloss.Color(s.Card.Color.Accent())

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(accent).Render(s.Card.Name))
	fmt.Fprintf(&b, "  %s to %s\n",
		cli.FormatDate(s.Cycle.Start), cli.FormatDate(s.Cycle.End.AddDate(0, 0, -1)))

	fmt.Fprintf(&b, "Spent %s of %s in %s\n",
		money.Format(s.Spent), money.Format(s.Card.CycleLimit), cli.Pluralize(s.Count, "expense"))
	if s.Card.CycleLimit.IsPositive() {
		b.WriteString(cli.Bar(s.Utilization, 30, cli.UtilizationColor(s.Utilization)))
		fmt.Fprintf(&b, " %3.0f%%\n", s.Utilization*100)
		if s.Available.IsNegative() {
			b.WriteString(cli.FormatWarning("Over limit by "+money.Format(s.Available.Neg())) + "\n")
		} else {
			fmt.Fprintf(&b, "Available %s\n", money.Format(s.Available))
		}
	}

	due := fmt.Sprintf("Due %s", cli.FormatDate(s.Cycle.Due))
	switch s.DaysToDue {
	case 0:
		due += " (today)"
	default:
		due += fmt.Sprintf(" (in %s)", cli.Pluralize(s.DaysToDue, "day"))
	}
	style := cli.SubtleStyle
	if s.DaysToDue <= 3 {
		style = cli.WarningStyle
	}
	b.WriteString(style.Render(due) + "\n")

	return b.String()
}
