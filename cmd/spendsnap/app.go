package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Veraticus/spendsnap/internal/cli"
	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/config"
	"github.com/Veraticus/spendsnap/internal/currency"
	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/pacing"
	"github.com/Veraticus/spendsnap/internal/storage"
)

const defaultDBHint = "$HOME/.local/share/spendsnap/spendsnap.db"

// app carries what every command needs once configuration is loaded.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	out io.Writer
	in  io.Reader
	now func() time.Time
	loc *time.Location
}

func newApp() *app {
	return &app{
		v:   viper.New(),
		out: os.Stdout,
		in:  os.Stdin,
		now: time.Now,
	}
}

func (a *app) initConfig(cfgFile string) error {
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		a.v.AddConfigPath(filepath.Join(home, ".config", "spendsnap"))
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	// Environment variables
	a.v.SetEnvPrefix("SPENDSNAP")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return common.NewUserError("invalid configuration", err)
	}
	a.cfg = cfg

	if err := setupLogging(cfg); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	a.loc = loc
	return nil
}

func setupLogging(cfg *config.Config) error {
	level, err := common.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	return common.SetupLogger(level, cfg.Logging.Format)
}

// openStorage opens and migrates the configured database.
func (a *app) openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(a.cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	store.SetLocation(a.loc)

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// A new database starts with the default categories.
	categories, err := store.ListCategories(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if len(categories) == 0 {
		if _, err := store.SeedDefaultCategories(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to seed categories: %w", err)
		}
	}

	return store, nil
}

// today returns the current time in the configured zone.
func (a *app) today() time.Time {
	return a.now().In(a.loc)
}

func (a *app) weekStart() time.Weekday {
	d, _ := a.cfg.WeekStart()
	return d
}

// month resolves a YYYY-MM flag value, defaulting to the current month.
func (a *app) month(key string) (model.Month, error) {
	if key == "" {
		return model.MonthOf(a.today()), nil
	}
	m, err := model.ParseMonthKey(key, a.loc)
	if err != nil {
		return model.Month{}, common.NewUserError("month must look like 2025-03", err)
	}
	return m, nil
}

// money returns a formatter for the configured currency, falling back to the
// stored settings.
func (a *app) money(ctx context.Context, store *storage.SQLiteStorage) (cli.Money, error) {
	code := a.cfg.Locale.Currency
	if code == "" {
		settings, err := store.GetSettings(ctx)
		if err != nil {
			return cli.Money{}, err
		}
		code = settings.CurrencyCode
	}

	code, err := currency.Normalize(code)
	if err != nil {
		return cli.Money{}, err
	}
	tag, err := a.cfg.Language()
	if err != nil {
		return cli.Money{}, err
	}
	return cli.NewMoney(currency.DefaultTable(), code, tag), nil
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// parseAmount reads a non-negative decimal from user input.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, common.NewUserError(fmt.Sprintf("%q is not an amount", s), err)
	}
	if d.IsNegative() {
		return decimal.Zero, common.NewUserError("amount cannot be negative", common.ErrNegativeAmount)
	}
	return d, nil
}

// parseDate reads YYYY-MM-DD in the configured zone; empty means now.
func (a *app) parseDate(s string) (time.Time, error) {
	if s == "" {
		return a.today(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, a.loc)
	if err != nil {
		return time.Time{}, common.NewUserError("date must look like 2025-03-14", err)
	}
	return t, nil
}

func progressColor(ov pacing.MonthOverview) lipgloss.Color {
	if ov.OverBudget {
		return cli.ErrorColor
	}
	return cli.UtilizationColor(ov.Progress)
}
