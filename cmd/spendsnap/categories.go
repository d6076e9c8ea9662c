package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/pacing"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage expense categories",
		Long:    `List and add expense categories and set per-category monthly budgets.`,
	}

	cmd.AddCommand(listCategoriesCmd(a))
	cmd.AddCommand(addCategoryCmd(a))
	cmd.AddCommand(seedCategoriesCmd(a))
	cmd.AddCommand(categoryBudgetCmd(a))

	return cmd
}

func listCategoriesCmd(a *app) *cobra.Command {
	var monthKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories with their spending this month",
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

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			if len(categories) == 0 {
				a.println(cli.InfoStyle.Render("No categories found. Use 'spendsnap categories seed' to add the defaults."))
				return nil
			}

			budgets, err := store.GetCategoryBudgets(ctx, month.Key())
			if err != nil {
				return err
			}
			limits := make(map[int64]decimal.Decimal, len(budgets))
			for _, b := range budgets {
				limits[b.CategoryID] = b.Amount
			}

			txns, err := store.GetTransactionsByMonth(ctx, month)
			if err != nil {
				return err
			}
			spent := make(map[int64]decimal.Decimal)
			for _, ct := range pacing.CategoryTotals(txns) {
				spent[ct.CategoryID] = ct.Amount
			}

			money, err := a.money(ctx, store)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(categories))
			for _, c := range categories {
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(model.ResolveColor(&c, model.FallbackColor))).Render("■")

				limit, ok := limits[c.ID]
				if !ok {
					limit = c.MonthlyBudget
				}
				used := spent[c.ID]
				budgetCol := "-"
				if limit.IsPositive() {
					ratio := used.Div(limit).InexactFloat64()
					budgetCol = money.Format(limit) + " " + cli.Bar(ratio, 10, cli.UtilizationColor(ratio))
				}

				rows = append(rows, []string{
					swatch + " " + c.Emoji + " " + c.Name,
					money.Format(used),
					budgetCol,
				})
			}

			a.println(cli.FormatTitle(cli.ChartIcon, "Categories for "+month.String()))
			a.println(cli.Table([]string{"Category", "Spent", "Budget"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthKey, "month", "", "month as YYYY-MM (default: current month)")
	return cmd
}

func addCategoryCmd(a *app) *cobra.Command {
	var (
		emoji  string
		color  string
		budget string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			monthly, err := parseAmount(budget)
			if err != nil {
				return err
			}

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat := model.Category{
				Name:          args[0],
				Emoji:         emoji,
				ColorHex:      color,
				MonthlyBudget: monthly,
			}
			if err := store.CreateCategory(ctx, &cat); err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return common.NewUserError(fmt.Sprintf("category %q already exists", cat.Name), err)
				}
				return fmt.Errorf("failed to create category: %w", err)
			}

			a.println(cli.FormatSuccess(fmt.Sprintf("Created category %s (ID: %d)", cat.Name, cat.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&emoji, "emoji", "", "emoji shown next to the name")
	cmd.Flags().StringVar(&color, "color", model.FallbackColor, "hex color such as #22C55E")
	cmd.Flags().StringVar(&budget, "budget", "0", "default monthly budget")

	return cmd
}

func seedCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add any missing default categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			added, err := store.SeedDefaultCategories(ctx)
			if err != nil {
				return err
			}
			if added == 0 {
				a.println(cli.InfoStyle.Render("All default categories already exist."))
				return nil
			}
			a.println(cli.FormatSuccess(fmt.Sprintf("Added %d default categories", added)))
			return nil
		},
	}
}

func categoryBudgetCmd(a *app) *cobra.Command {
	var monthKey string

	cmd := &cobra.Command{
		Use:   "budget <name> <amount>",
		Short: "Set a category's budget for one month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[1])
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

			cat, err := store.GetCategoryByName(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("no category named %q", args[0]), err)
			}
			if err != nil {
				return err
			}

			if err := store.SetCategoryBudget(ctx, model.CategoryBudget{
				CategoryID: cat.ID,
				MonthKey:   month.Key(),
				Amount:     amount,
			}); err != nil {
				return err
			}

			money, err := a.money(ctx, store)
			if err != nil {
				return err
			}
			a.println(cli.FormatSuccess(fmt.Sprintf("%s budget for %s set to %s", cat.Name, month, money.Format(amount))))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthKey, "month", "", "month as YYYY-MM (default: current month)")
	return cmd
}
