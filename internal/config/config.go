// Package config loads spendsnap settings from the config file, SPENDSNAP_*
// environment variables and command line flags.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone names resolve without system tzdata
	"unicode/utf8"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/currency"
	"github.com/Veraticus/spendsnap/internal/receipt"
)

// DefaultDatabasePath is used when database.path is not configured.
const DefaultDatabasePath = "$HOME/.local/share/spendsnap/spendsnap.db"

// Config is the typed view of the configuration file, environment and flags.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Locale   LocaleConfig   `mapstructure:"locale"`
	Receipt  ReceiptConfig  `mapstructure:"receipt"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LocaleConfig controls calendar and money display. An empty Timezone means
// the system zone; an empty Currency defers to the stored settings.
type LocaleConfig struct {
	Timezone  string `mapstructure:"timezone"`
	Language  string `mapstructure:"language"`
	Currency  string `mapstructure:"currency"`
	WeekStart string `mapstructure:"week_start"`
}

// ReceiptConfig tunes receipt parsing.
type ReceiptConfig struct {
	DateOrder        string   `mapstructure:"date_order"`
	DecimalSeparator string   `mapstructure:"decimal_separator"`
	CurrencyMarkers  []string `mapstructure:"currency_markers"`
	BaseWeight       int      `mapstructure:"base_weight"`
	KeywordBonus     int      `mapstructure:"keyword_bonus"`
	LineItemPenalty  int      `mapstructure:"line_item_penalty"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	weights := receipt.DefaultWeights()

	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("locale.timezone", "")
	v.SetDefault("locale.language", "en-US")
	v.SetDefault("locale.currency", "")
	v.SetDefault("locale.week_start", "monday")
	v.SetDefault("receipt.date_order", string(receipt.OrderMDY))
	v.SetDefault("receipt.decimal_separator", ".")
	v.SetDefault("receipt.currency_markers", receipt.DefaultConfig().CurrencyMarkers)
	v.SetDefault("receipt.base_weight", weights.Base)
	v.SetDefault("receipt.keyword_bonus", weights.KeywordBonus)
	v.SetDefault("receipt.line_item_penalty", weights.LineItemPenalty)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field that can be checked without side effects.
func (c *Config) Validate() error {
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if f := c.Logging.Format; f != "console" && f != "json" {
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, f)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.WeekStart(); err != nil {
		return err
	}
	if _, err := c.Language(); err != nil {
		return err
	}
	if c.Locale.Currency != "" {
		if _, err := currency.Normalize(c.Locale.Currency); err != nil {
			return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
		}
	}
	if _, err := c.ReceiptSettings(); err != nil {
		return err
	}
	return nil
}

// DatabasePath returns the expanded database path.
func (c *Config) DatabasePath() string {
	if c.Database.Path == "" {
		return ExpandPath(DefaultDatabasePath)
	}
	return ExpandPath(c.Database.Path)
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Locale.Timezone == "" || strings.EqualFold(c.Locale.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Locale.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", common.ErrInvalidConfig, c.Locale.Timezone, err)
	}
	return loc, nil
}

// Language resolves the display language tag.
func (c *Config) Language() (language.Tag, error) {
	tag, err := currency.ParseTag(c.Locale.Language)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return tag, nil
}

// WeekStart resolves the first day of the week.
func (c *Config) WeekStart() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(c.Locale.WeekStart))
	if name == "" {
		return time.Monday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("%w: week start %q", common.ErrInvalidConfig, c.Locale.WeekStart)
}

// ReceiptSettings builds the receipt extractor configuration.
func (c *Config) ReceiptSettings() (receipt.Config, error) {
	rc := receipt.DefaultConfig()

	order, err := receipt.ParseDateOrder(c.Receipt.DateOrder)
	if err != nil {
		return rc, err
	}
	rc.DateOrder = order

	if sep := c.Receipt.DecimalSeparator; sep != "" {
		r, size := utf8.DecodeRuneInString(sep)
		if size != len(sep) || (r != '.' && r != ',') {
			return rc, fmt.Errorf("%w: decimal separator %q", common.ErrInvalidConfig, sep)
		}
		rc.DecimalSeparator = r
	}

	if len(c.Receipt.CurrencyMarkers) > 0 {
		rc.CurrencyMarkers = c.Receipt.CurrencyMarkers
	}
	rc.Weights = receipt.Weights{
		Base:            c.Receipt.BaseWeight,
		KeywordBonus:    c.Receipt.KeywordBonus,
		LineItemPenalty: c.Receipt.LineItemPenalty,
	}

	loc, err := c.Location()
	if err != nil {
		return rc, err
	}
	rc.Location = loc
	return rc, nil
}
