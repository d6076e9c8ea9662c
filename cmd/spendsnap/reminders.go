package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/reminder"
)

func remindersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Show or change the daily logging reminders",
	}

	cmd.AddCommand(showRemindersCmd(a))
	cmd.AddCommand(setRemindersCmd(a))

	return cmd
}

func showRemindersCmd(a *app) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the reminder level and the next reminders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.GetSettings(ctx)
			if err != nil {
				return err
			}
			level := settings.ReminderLevel

			a.println(cli.FormatTitle(cli.BellIcon, "Reminders"))
			a.printf("Level: %s (%s)\n", cli.BoldStyle.Render(string(level)), level.Description())

			upcoming := reminder.Plan(level, a.today(), count)
			if len(upcoming) == 0 {
				a.println(cli.SubtleStyle.Render("No reminders scheduled."))
				return nil
			}
			for _, at := range upcoming {
				a.printf("  %s %s\n", cli.FormatDate(at), at.Format("15:04"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 4, "number of upcoming reminders to list")
	return cmd
}

func setRemindersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "set <quiet|subtle|aggressive>",
		Short:     "Change the reminder level",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.ReminderQuiet), string(model.ReminderSubtle), string(model.ReminderAggressive)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			level, err := model.ParseReminderLevel(args[0])
			if err != nil {
				return common.NewUserError("level must be quiet, subtle or aggressive", err)
			}

			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.GetSettings(ctx)
			if err != nil {
				return err
			}
			settings.ReminderLevel = level
			if err := store.SaveSettings(ctx, settings); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}

			a.println(cli.FormatSuccess(fmt.Sprintf("Reminders set to %s (%s)", level, level.Description())))
			return reminder.Apply(ctx, reminder.PrintScheduler{Printf: a.printf}, level)
		},
	}
}
