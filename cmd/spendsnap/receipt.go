package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/receipt"
)

func receiptCmd(a *app) *cobra.Command {
	var (
		top      int
		pick     int
		save     bool
		merchant string
		category string
		cardName string
	)

	cmd := &cobra.Command{
		Use:   "receipt [file]",
		Short: "Find the total and date in receipt text",
		Long: `Read recognized receipt text, one line per line of the receipt, and find the
most likely total amount and the purchase date.

Text is read from the file, or from standard input when no file is given or
the file is "-". With --save the total is logged as an expense dated on the
receipt date, or today when no date is found.`,
		Example: `  pbpaste | spendsnap receipt
  spendsnap receipt scan.txt --save -m "Imtiaz" --category Groceries`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			lines, err := a.readReceipt(ctx, path)
			if err != nil {
				return err
			}

			settings, err := a.cfg.ReceiptSettings()
			if err != nil {
				return common.NewUserError("invalid receipt settings", err)
			}
			extractor, err := receipt.NewExtractor(settings)
			if err != nil {
				return common.NewUserError("invalid receipt settings", err)
			}
			result := extractor.Extract(lines)

			a.println(cli.FormatTitle(cli.ReceiptIcon, "Receipt"))
			if result.HasDate {
				a.printf("Date:  %s\n", cli.FormatDate(result.Date))
			} else {
				a.println(cli.SubtleStyle.Render("Date:  not found"))
			}
			if !result.HasTotal {
				a.println(cli.FormatWarning("No amount found in the receipt text."))
				if save {
					return common.NewUserError("nothing to save", common.ErrNotFound)
				}
				return nil
			}

			candidates := result.Candidates.TopN(top)
			rows := make([][]string, 0, len(candidates))
			for i, c := range candidates {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					c.Value.StringFixed(2),
					fmt.Sprintf("%d", c.Weight),
					truncate(lines[c.Line], 40),
				})
			}
			a.printf("Total: %s\n", cli.BoldStyle.Render(result.Total.StringFixed(2)))
			a.println(cli.Table([]string{"#", "Amount", "Weight", "Line"}, rows))

			if !save {
				return nil
			}

			// Candidates are ranked; --top only limits what is shown.
			ranked := result.Candidates
			if pick < 1 || pick > len(ranked) {
				return common.NewUserError(fmt.Sprintf("--pick must be between 1 and %d", len(ranked)), nil)
			}
			amount := ranked[pick-1].Value

			when := a.today()
			if result.HasDate {
				when = result.Date
			}

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := model.NewTransaction(amount, when, merchant, model.MethodCash)
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
			a.println(cli.FormatSuccess(fmt.Sprintf("Logged %s on %s (%s)", money.Format(txn.Amount), cli.FormatDate(txn.Date), shortID(txn.ID))))
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 3, "number of candidate totals to show")
	cmd.Flags().IntVar(&pick, "pick", 1, "candidate to save when it is not the first")
	cmd.Flags().BoolVar(&save, "save", false, "log the total as an expense")
	cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "merchant for the saved expense")
	cmd.Flags().StringVar(&category, "category", "", "category for the saved expense")
	cmd.Flags().StringVar(&cardName, "card", "", "credit card for the saved expense")

	return cmd
}

// readReceipt reads receipt lines from path, or from the command input for "-".
func (a *app) readReceipt(ctx context.Context, path string) ([]string, error) {
	var r io.Reader = a.in
	if path != "-" {
		// #nosec G304 - user-specified receipt file
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("cannot open %s", path), err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	lines, err := cli.NewNonBlockingReader(r).ReadLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	return lines, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
