package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Production endpoints. The screener shares the quote host but is kept
// separately configurable.
const (
	DefaultYahooBaseURL   = "https://query1.finance.yahoo.com"
	DefaultMarketsBaseURL = "https://query1.finance.yahoo.com"
)

// HistoryRanges are the chart ranges the provider accepts
var HistoryRanges = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// Config holds all configuration for stockcli.
type Config struct {
	// Base URLs for API endpoints (configurable for testing)
	YahooBaseURL   string `mapstructure:"yahoo_base_url"`
	MarketsBaseURL string `mapstructure:"markets_base_url"`

	// HTTP behaviour
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RetryCount     int           `mapstructure:"retry_count"`

	// Dataset shaping
	PivotColumns int    `mapstructure:"pivot_columns"`
	NewsCount    int    `mapstructure:"news_count"`
	MarketsCount int    `mapstructure:"markets_count"`
	HistoryRange string `mapstructure:"history_range"`

	// Output
	Width    int    `mapstructure:"width"`
	Spinner  bool   `mapstructure:"spinner"`
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from environment variables and an optional config
// file. Environment variables take precedence over config file values.
//
// When path is empty, config.yaml is looked up in the working directory and
// in $HOME/.stockcli, and a missing file is not an error. An explicit path
// must exist.
//
// Environment variables are the upper-cased keys with a STOCKCLI_ prefix,
// e.g. STOCKCLI_YAHOO_BASE_URL. The width also honours COLUMNS.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("yahoo_base_url", DefaultYahooBaseURL)
	v.SetDefault("markets_base_url", DefaultMarketsBaseURL)
	v.SetDefault("user_agent", "")
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("retry_count", 0)
	v.SetDefault("pivot_columns", 4)
	v.SetDefault("news_count", 10)
	v.SetDefault("markets_count", 25)
	v.SetDefault("history_range", "1mo")
	v.SetDefault("width", 0)
	v.SetDefault("spinner", true)
	v.SetDefault("log_level", "warn")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.stockcli")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("STOCKCLI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// width falls back to the shell's terminal width
	if err := v.BindEnv("width", "STOCKCLI_WIDTH", "COLUMNS"); err != nil {
		return nil, fmt.Errorf("failed to bind width: %w", err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var problems []string

	for _, u := range []struct {
		key, value string
	}{
		{"yahoo_base_url", c.YahooBaseURL},
		{"markets_base_url", c.MarketsBaseURL},
	} {
		parsed, err := url.Parse(u.value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			problems = append(problems, fmt.Sprintf("%s must be an absolute URL, got %q", u.key, u.value))
		}
	}

	if c.RequestTimeout <= 0 {
		problems = append(problems, "request_timeout must be positive")
	}
	if c.RetryCount < 0 {
		problems = append(problems, "retry_count must not be negative")
	}
	if c.PivotColumns < 1 {
		problems = append(problems, "pivot_columns must be at least 1")
	}
	if c.NewsCount < 1 {
		problems = append(problems, "news_count must be at least 1")
	}
	if c.MarketsCount < 1 {
		problems = append(problems, "markets_count must be at least 1")
	}
	if !slices.Contains(HistoryRanges, c.HistoryRange) {
		problems = append(problems, fmt.Sprintf("history_range must be one of %s, got %q", strings.Join(HistoryRanges, ", "), c.HistoryRange))
	}
	if c.Width < 0 {
		problems = append(problems, "width must not be negative")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Level returns the slog level named by log_level
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", name)
	}
	return level, nil
}
