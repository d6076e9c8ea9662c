package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/storage"
)

func backupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create and restore database backups",
		Long: `Backups are consistent copies of the database kept in a "backups" directory
next to it. An automatic backup is taken before every import; the newest few
are kept.`,
	}

	cmd.AddCommand(createBackupCmd(a))
	cmd.AddCommand(listBackupsCmd(a))
	cmd.AddCommand(restoreBackupCmd(a))
	cmd.AddCommand(deleteBackupCmd(a))

	return cmd
}

func createBackupCmd(a *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [id]",
		Short: "Create a backup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var id string
			if len(args) == 1 {
				id = args[0]
			}

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mgr, err := storage.NewBackupManager(store)
			if err != nil {
				return err
			}
			info, err := mgr.Create(ctx, id, description)
			if err != nil {
				return backupError(err)
			}

			a.println(cli.FormatSuccess(fmt.Sprintf("Created backup %s with %s (%s)",
				info.ID, cli.Pluralize(info.Expenses(), "expense"), formatSize(info.FileSize))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "m", "", "note stored with the backup")
	return cmd
}

func listBackupsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mgr, err := storage.NewBackupManager(store)
			if err != nil {
				return err
			}
			backups, err := mgr.List(ctx)
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				a.println(cli.InfoStyle.Render("No backups yet. Use 'spendsnap backup create' to make one."))
				return nil
			}

			rows := make([][]string, 0, len(backups))
			for _, b := range backups {
				kind := "manual"
				if b.IsAuto {
					kind = "auto"
				}
				rows = append(rows, []string{
					b.ID,
					b.CreatedAt.In(a.loc).Format(time.DateTime),
					kind,
					fmt.Sprintf("%d", b.Expenses()),
					formatSize(b.FileSize),
					b.Description,
				})
			}
			a.println(cli.Table([]string{"ID", "Created", "Kind", "Expenses", "Size", "Description"}, rows))
			a.println(cli.SubtleStyle.Render(mgr.Dir()))
			return nil
		},
	}
}

func restoreBackupCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Replace the database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			// Restore closes the store itself; a second Close is harmless.
			defer func() { _ = store.Close() }()

			if !yes {
				ok, err := cli.NewPrompter(a.in, a.out).Confirm(ctx,
					fmt.Sprintf("Replace the current database with backup %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					a.println(cli.InfoStyle.Render("Nothing restored."))
					return nil
				}
			}

			mgr, err := storage.NewBackupManager(store)
			if err != nil {
				return err
			}
			if err := mgr.Restore(ctx, args[0]); err != nil {
				return backupError(err)
			}

			a.println(cli.FormatSuccess("Restored backup " + args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func deleteBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			mgr, err := storage.NewBackupManager(store)
			if err != nil {
				return err
			}
			if err := mgr.Delete(ctx, args[0]); err != nil {
				return backupError(err)
			}
			a.println(cli.FormatSuccess("Deleted backup " + args[0]))
			return nil
		},
	}
}

// backupError turns expected backup failures into user errors.
func backupError(err error) error {
	switch {
	case errors.Is(err, storage.ErrBackupNotFound):
		return common.NewUserError("no such backup; see 'spendsnap backup list'", err)
	case errors.Is(err, storage.ErrBackupExists):
		return common.NewUserError("a backup with that ID already exists", err)
	case errors.Is(err, storage.ErrInvalidBackupID):
		return common.NewUserError("backup IDs cannot contain slashes, quotes or semicolons", err)
	case errors.Is(err, storage.ErrBackupCorrupted):
		return common.NewUserError("the backup failed its integrity check and was not restored", err)
	}
	return err
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
