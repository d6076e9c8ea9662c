package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/ofx"
	"github.com/Veraticus/spendsnap/internal/storage"
)

func importOFXCmd(a *app) *cobra.Command {
	var (
		dryRun   bool
		cardName string
		category string
		noBackup bool
	)

	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import expenses from OFX/QFX files",
		Long: `Import expenses from OFX or QFX (Quicken) files exported from your bank.

Only debits are imported. Refunds, payments and other credits are skipped.
Expenses already imported from an earlier statement are not added twice.`,
		Example: `  # Import a single file
  spendsnap import-ofx ~/Downloads/alfalah_mar_2025.qfx

  # Import a credit card statement and charge it to a card
  spendsnap import-ofx ~/Downloads/cc_*.qfx --card Alfalah`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var card *model.CardProfile
			if cardName != "" {
				card, err = store.GetCardByName(ctx, cardName)
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("no card named %q", cardName), err)
				}
				if err != nil {
					return err
				}
			}
			var categoryID *int64
			if category != "" {
				cat, err := store.GetCategoryByName(ctx, category)
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("no category named %q", category), err)
				}
				if err != nil {
					return err
				}
				categoryID = &cat.ID
			}

			parser := ofx.NewParser(a.loc)
			seen := make(map[string]bool)
			var (
				all     []model.Transaction
				skipped int
				failed  []string
			)

			bar := cli.NewImportProgress(cmd.ErrOrStderr(), len(files), "Reading statements")
			for _, path := range files {
				result, err := parseStatement(cmd, parser, path)
				if err != nil {
					common.LogError(err, "Failed to import OFX file", common.Fields{"file": path})
					failed = append(failed, filepath.Base(path))
					_ = bar.Add(1)
					continue
				}

				skipped += result.Skipped
				for _, txn := range result.Transactions {
					if seen[txn.Hash()] {
						continue
					}
					seen[txn.Hash()] = true
					if card != nil {
						txn = txn.WithCard(card.ID)
					}
					if categoryID != nil {
						txn = txn.WithCategory(*categoryID)
					}
					all = append(all, txn)
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			for _, f := range failed {
				a.println(cli.FormatError("Could not read " + f))
			}
			if len(all) == 0 {
				a.println(cli.FormatWarning("No expenses found to import."))
				return nil
			}

			money, err := a.money(ctx, store)
			if err != nil {
				return err
			}
			summarizeImport(a, all, skipped, money)

			if dryRun {
				a.println(cli.InfoStyle.Render("Dry run: nothing saved."))
				return nil
			}

			if !noBackup {
				if err := autoBackup(cmd, store, "import"); err != nil {
					return err
				}
			}

			inserted, err := store.SaveTransactions(ctx, all)
			if err != nil {
				return fmt.Errorf("failed to save expenses: %w", err)
			}
			a.println(cli.FormatSuccess(fmt.Sprintf("Imported %s (%d already present)",
				cli.Pluralize(inserted, "expense"), len(all)-inserted)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "preview the import without saving")
	cmd.Flags().StringVar(&cardName, "card", "", "charge imported expenses to this card")
	cmd.Flags().StringVar(&category, "category", "", "assign imported expenses to this category")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "skip the automatic backup before importing")

	return cmd
}

// expandFiles expands glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("invalid pattern %s", pattern), err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", common.ErrNotFound)
	}
	return files, nil
}

func parseStatement(cmd *cobra.Command, parser *ofx.Parser, path string) (*ofx.Result, error) {
	// #nosec G304 - user-specified statement file
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return parser.ParseFile(cmd.Context(), f)
}

func summarizeImport(a *app, txns []model.Transaction, skipped int, money cli.Money) {
	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	first, last := sorted[0].Date, sorted[len(sorted)-1].Date
	a.printf("Found %s from %s to %s, total %s\n",
		cli.Pluralize(len(sorted), "expense"),
		first.Format(time.DateOnly), last.Format(time.DateOnly),
		money.Format(model.Total(sorted)))
	if skipped > 0 {
		a.println(cli.SubtleStyle.Render(fmt.Sprintf("Skipped %d credits or unreadable entries", skipped)))
	}

	limit := min(len(sorted), 5)
	rows := make([][]string, 0, limit)
	for _, t := range sorted[len(sorted)-limit:] {
		rows = append(rows, []string{cli.FormatDate(t.Date), t.Merchant, money.Format(t.Amount)})
	}
	a.println(cli.Table([]string{"Date", "Merchant", "Amount"}, rows))
}

// autoBackup snapshots the database before a bulk change.
func autoBackup(cmd *cobra.Command, store *storage.SQLiteStorage, operation string) error {
	mgr, err := storage.NewBackupManager(store)
	if err != nil {
		return err
	}
	info, err := mgr.Auto(cmd.Context(), operation)
	if err != nil {
		return err
	}
	common.LogInfo("Created automatic backup", common.Fields{"id": info.ID, "operation": operation})
	return nil
}
