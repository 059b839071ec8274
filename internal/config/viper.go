// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/expense-analyzer/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Store backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "EXPENSE"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Data struct {
		Directory       string `mapstructure:"directory" yaml:"directory"`
		CleanFile       string `mapstructure:"clean_file" yaml:"clean_file"`
		CategorizedFile string `mapstructure:"categorized_file" yaml:"categorized_file"`
	} `mapstructure:"data" yaml:"data"`

	Store struct {
		Backend       string `mapstructure:"backend" yaml:"backend"`
		OverridesFile string `mapstructure:"overrides_file" yaml:"overrides_file"`
		OneOffFile    string `mapstructure:"one_off_file" yaml:"one_off_file"`
		SQLitePath    string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	} `mapstructure:"store" yaml:"store"`

	Categorization struct {
		KeywordsFile string   `mapstructure:"keywords_file" yaml:"keywords_file"`
		NoiseTokens  []string `mapstructure:"noise_tokens" yaml:"noise_tokens"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Forecast struct {
		MonthsLookback      int     `mapstructure:"months_lookback" yaml:"months_lookback"`
		BandMultiplier      float64 `mapstructure:"band_multiplier" yaml:"band_multiplier"`
		IncludeCurrentMonth bool    `mapstructure:"include_current_month" yaml:"include_current_month"`
	} `mapstructure:"forecast" yaml:"forecast"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return load("")
}

// InitializeConfigFromFile loads configuration from an explicit file instead of
// searching the default locations. Unlike the search, a missing file is an error.
func InitializeConfigFromFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is empty")
	}
	return load(path)
}

func load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.expense-analyzer")
		v.AddConfigPath(".expense-analyzer")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")

	// Data defaults
	v.SetDefault("data.directory", "data")
	v.SetDefault("data.clean_file", models.DefaultCleanFile)
	v.SetDefault("data.categorized_file", models.DefaultCategorizedFile)

	// Store defaults
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.overrides_file", models.DefaultOverridesFile)
	v.SetDefault("store.one_off_file", models.DefaultOneOffFile)
	v.SetDefault("store.sqlite_path", models.DefaultSQLiteFile)

	// Categorization defaults
	v.SetDefault("categorization.keywords_file", "")
	v.SetDefault("categorization.noise_tokens", []string{})

	// Forecast defaults
	v.SetDefault("forecast.months_lookback", 3)
	v.SetDefault("forecast.band_multiplier", 1.0)
	v.SetDefault("forecast.include_current_month", false)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	switch config.Store.Backend {
	case BackendFile:
		if config.Store.OverridesFile == "" || config.Store.OneOffFile == "" {
			return fmt.Errorf("store.overrides_file and store.one_off_file are required for the file backend")
		}
	case BackendSQLite:
		if config.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be '%s' or '%s')", config.Store.Backend, BackendFile, BackendSQLite)
	}

	if config.Forecast.MonthsLookback < 1 {
		return fmt.Errorf("forecast.months_lookback must be at least 1, got: %d", config.Forecast.MonthsLookback)
	}
	if config.Forecast.BandMultiplier <= 0 {
		return fmt.Errorf("forecast.band_multiplier must be positive, got: %f", config.Forecast.BandMultiplier)
	}

	return nil
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	return []rune(c.CSV.Delimiter)[0]
}

// CleanFilePath is the cleaned dataset location, relative paths resolved
// against the data directory.
func (c *Config) CleanFilePath() string {
	return c.inDataDir(c.Data.CleanFile)
}

// CategorizedFilePath is the categorized dataset location, relative paths
// resolved against the data directory.
func (c *Config) CategorizedFilePath() string {
	return c.inDataDir(c.Data.CategorizedFile)
}

func (c *Config) inDataDir(name string) string {
	if filepath.IsAbs(name) || c.Data.Directory == "" {
		return name
	}
	return filepath.Join(c.Data.Directory, name)
}

// OverridesFilePath is the override rule table location.
func (c *Config) OverridesFilePath() string {
	return c.inDataDir(c.Store.OverridesFile)
}

// OneOffFilePath is the one-off exception table location.
func (c *Config) OneOffFilePath() string {
	return c.inDataDir(c.Store.OneOffFile)
}

// SQLiteFilePath is the rule database location.
func (c *Config) SQLiteFilePath() string {
	return c.inDataDir(c.Store.SQLitePath)
}

// KeywordsFilePath is the optional keyword rule file, relative paths resolved
// against the data directory. It is empty when no file is configured.
func (c *Config) KeywordsFilePath() string {
	if c.Categorization.KeywordsFile == "" {
		return ""
	}
	return c.inDataDir(c.Categorization.KeywordsFile)
}

// Validate re-checks the configuration, e.g. after command-line overrides.
func (c *Config) Validate() error {
	if err := validateConfig(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Defaults returns the built-in configuration, ignoring config files and the
// environment.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// defaults always decode
	_ = v.Unmarshal(&config)
	return &config
}
