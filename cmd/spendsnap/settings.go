package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/currency"
)

func settingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored preferences",
	}

	cmd.AddCommand(showSettingsCmd(a))
	cmd.AddCommand(setCurrencyCmd(a))

	return cmd
}

func showSettingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show stored preferences and the effective configuration",
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
			money, err := a.money(ctx, store)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Currency", money.Code()},
				{"Stored currency", settings.CurrencyCode},
				{"Reminders", string(settings.ReminderLevel)},
				{"Timezone", a.loc.String()},
				{"Language", a.cfg.Locale.Language},
				{"Week starts", a.weekStart().String()},
				{"Receipt dates", a.cfg.Receipt.DateOrder},
				{"Database", a.cfg.DatabasePath()},
			}
			if config := a.v.ConfigFileUsed(); config != "" {
				rows = append(rows, []string{"Config file", config})
			}

			a.println(cli.Table([]string{"Setting", "Value"}, rows))
			return nil
		},
	}
}

func setCurrencyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "currency <code>",
		Short: "Store the currency used when the config does not set one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			code, err := currency.Normalize(args[0])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("%q is not an ISO 4217 currency code", args[0]), err)
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
			settings.CurrencyCode = code
			if err := store.SaveSettings(ctx, settings); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}

			a.println(cli.FormatSuccess("Currency set to " + code))
			if a.cfg.Locale.Currency != "" {
				a.println(cli.FormatWarning(fmt.Sprintf("locale.currency in the config (%s) takes precedence", a.cfg.Locale.Currency)))
			}
			return nil
		},
	}
}
