package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/model"
)

func expenseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"e"},
		Short:   "Log, list and delete expenses",
	}

	cmd.AddCommand(addExpenseCmd(a))
	cmd.AddCommand(listExpensesCmd(a))
	cmd.AddCommand(deleteExpenseCmd(a))

	return cmd
}

func addExpenseCmd(a *app) *cobra.Command {
	var (
		merchant string
		date     string
		cardName string
		category string
		method   string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Log an expense",
		Example: `  spendsnap expense add 450 -m "Cafe Aroma" --category "Dine out"
  spendsnap expense add 12,500 --card Alfalah --date 2025-03-14`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			when, err := a.parseDate(date)
			if err != nil {
				return err
			}
			pm, err := model.ParsePaymentMethod(method)
			if err != nil {
				return common.NewUserError("method must be cash or card", err)
			}

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := model.NewTransaction(amount, when, merchant, pm)
			if err != nil {
				return err
			}

			if category != "" {
				cat, err := store.GetCategoryByName(ctx, category)
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("no category named %q", category), err)
				}
				if err != nil {
					return err
				}
				txn = txn.WithCategory(cat.ID)
			}

			if cardName != "" {
				card, err := store.GetCardByName(ctx, cardName)
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("no card named %q", cardName), err)
				}
				if err != nil {
					return err
				}
				txn = txn.WithCard(card.ID)
			}

			if err := store.AddTransaction(ctx, txn); err != nil {
				return fmt.Errorf("failed to save expense: %w", err)
			}

			money, err := a.money(ctx, store)
			if err != nil {
				return err
			}
			a.println(cli.FormatSuccess(fmt.Sprintf("Logged %s on %s (%s)", money.Format(txn.Amount), cli.FormatDate(txn.Date), txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "merchant or note")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&cardName, "card", "", "credit card name; implies --method card")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&method, "method", "cash", "payment method (cash, card)")

	return cmd
}

func listExpensesCmd(a *app) *cobra.Command {
	var monthKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the expenses of a month",
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

			txns, err := store.GetTransactionsByMonth(ctx, month)
			if err != nil {
				return fmt.Errorf("failed to get expenses: %w", err)
			}
			if len(txns) == 0 {
				a.println(cli.InfoStyle.Render("No expenses in " + month.String() + ". Use 'spendsnap expense add' to log one."))
				return nil
			}

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return err
			}
			cards, err := store.ListCards(ctx)
			if err != nil {
				return err
			}
			cardNames := make(map[int64]string, len(cards))
			for _, c := range cards {
				cardNames[c.ID] = c.Name
			}
			index := model.NewCategoryIndex(categories)

			money, err := a.money(ctx, store)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(txns))
			for _, t := range txns {
				paid := t.Method.Title()
				if t.CardID != nil {
					if name, ok := cardNames[*t.CardID]; ok {
						paid = name
					}
				}
				rows = append(rows, []string{
					cli.FormatDate(t.Date),
					t.Merchant,
					model.ResolveName(index.Lookup(t.CategoryID), "Uncategorized"),
					paid,
					money.Format(t.Amount),
					shortID(t.ID),
				})
			}

			a.println(cli.FormatTitle(cli.WalletIcon, "Expenses for "+month.String()))
			a.println(cli.Table([]string{"Date", "Merchant", "Category", "Paid", "Amount", "ID"}, rows))
			a.printf("%s %s\n", cli.BoldStyle.Render("Total:"), money.Format(model.Total(txns)))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthKey, "month", "", "month as YYYY-MM (default: current month)")
	return cmd
}

func deleteExpenseCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Long:  `Delete an expense by its ID or by a unique prefix of at least 8 characters, as shown by 'expense list'.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := findExpense(ctx, store, args[0])
			if err != nil {
				return err
			}

			money, err := a.money(ctx, store)
			if err != nil {
				return err
			}

			if !yes {
				ok, err := cli.NewPrompter(a.in, a.out).Confirm(ctx,
					fmt.Sprintf("Delete %s at %s on %s?", money.Format(txn.Amount), txn.Merchant, cli.FormatDate(txn.Date)))
				if err != nil {
					return err
				}
				if !ok {
					a.println(cli.InfoStyle.Render("Nothing deleted."))
					return nil
				}
			}

			if err := store.DeleteTransaction(ctx, txn.ID); err != nil {
				return fmt.Errorf("failed to delete expense: %w", err)
			}
			a.println(cli.FormatSuccess("Deleted expense " + txn.ID))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
