package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/pacing"
)

func budgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Set and show monthly budgets",
	}

	cmd.AddCommand(setBudgetCmd(a))
	cmd.AddCommand(showBudgetCmd(a))

	return cmd
}

func setBudgetCmd(a *app) *cobra.Command {
	var (
		monthKey string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "set <amount>",
		Short: "Set the budget of a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			month, err := a.month(monthKey)
			if err != nil {
				return err
			}

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budget, err := model.NewBudgetTarget(month.Key(), amount, note)
			if err != nil {
				return err
			}
			if err := store.SetBudget(ctx, &budget); err != nil {
				return fmt.Errorf("failed to save budget: %w", err)
			}

			money, err := a.money(ctx, store)
			if err != nil {
				return err
			}
			a.println(cli.FormatSuccess(fmt.Sprintf("Budget for %s set to %s (%s per day)",
				month, money.Format(amount), money.Format(pacing.IdealPerDay(amount, month)))))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthKey, "month", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().StringVar(&note, "note", "", "optional note")
	return cmd
}

func showBudgetCmd(a *app) *cobra.Command {
	var monthKey string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a month's budget and how much of it is used",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			month, err := a.month(monthKey)
			if err != nil {
				return err
			}

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budget, err := store.GetBudget(ctx, month.Key())
			if err != nil {
				return err
			}
			money, err := a.money(ctx, store)
			if err != nil {
				return err
			}
			if budget == nil {
				a.println(cli.InfoStyle.Render(fmt.Sprintf("No budget set for %s. Use 'spendsnap budget set <amount> --month %s'.", month, month.Key())))
				return nil
			}

			txns, err := store.GetTransactionsByMonth(ctx, month)
			if err != nil {
				return err
			}
			ov := pacing.Overview(txns, budget.Amount, month, a.today(), a.weekStart())

			a.println(cli.FormatTitle(cli.WalletIcon, "Budget for "+month.String()))
			a.printf("Budget:    %s\n", money.Format(budget.Amount))
			a.printf("Spent:     %s\n", money.Format(ov.Spent))
			a.printf("Remaining: %s\n", money.Format(ov.Remaining))
			a.println(cli.LabeledBar("Used", ov.Progress, 10, 30, progressColor(ov)))
			if budget.Note != "" {
				a.println(cli.SubtleStyle.Render(budget.Note))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&monthKey, "month", "", "month as YYYY-MM (default: current month)")
	return cmd
}
