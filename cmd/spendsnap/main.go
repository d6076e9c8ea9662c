package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/common"
)

var version = "dev"

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd(newApp()).ExecuteContext(ctx)
	cancel()

	if err != nil {
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			fmt.Fprintln(os.Stderr, cli.FormatError(userErr.UserMessage))
			slog.Debug("Command failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		}
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "spendsnap",
		Short: "👛 Quick expense logging with budget pacing",
		Long: `spendsnap: log expenses in seconds, see whether the month is on pace,
track credit card billing cycles and read totals off receipt text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.out = cmd.OutOrStdout()
			a.in = cmd.InOrStdin()
			return a.initConfig(cfgFile)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/spendsnap/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "database path (default: "+defaultDBHint+")")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = a.v.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
	_ = a.v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(expenseCmd(a))
	rootCmd.AddCommand(budgetCmd(a))
	rootCmd.AddCommand(cardCmd(a))
	rootCmd.AddCommand(paceCmd(a))
	rootCmd.AddCommand(overviewCmd(a))
	rootCmd.AddCommand(insightsCmd(a))
	rootCmd.AddCommand(receiptCmd(a))
	rootCmd.AddCommand(importOFXCmd(a))
	rootCmd.AddCommand(categoriesCmd(a))
	rootCmd.AddCommand(remindersCmd(a))
	rootCmd.AddCommand(settingsCmd(a))
	rootCmd.AddCommand(backupCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spendsnap %s\n", version)
		},
	}
}
