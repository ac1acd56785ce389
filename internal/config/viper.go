// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Storage struct {
		Driver         string `mapstructure:"driver" yaml:"driver"`
		DSN            string `mapstructure:"dsn" yaml:"-"` // may hold credentials
		LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"storage" yaml:"storage"`

	Pipeline struct {
		Workers             int `mapstructure:"workers" yaml:"workers"`
		SequentialThreshold int `mapstructure:"sequential_threshold" yaml:"sequential_threshold"`
		ErrorSampleSize     int `mapstructure:"error_sample_size" yaml:"error_sample_size"`
		ErrorSnippetLength  int `mapstructure:"error_snippet_length" yaml:"error_snippet_length"`
	} `mapstructure:"pipeline" yaml:"pipeline"`

	Filter struct {
		Senders  []string `mapstructure:"senders" yaml:"senders"`
		Keywords []string `mapstructure:"keywords" yaml:"keywords"`
	} `mapstructure:"filter" yaml:"filter"`

	Extraction struct {
		DefaultCurrency    string `mapstructure:"default_currency" yaml:"default_currency"`
		DefaultCountryCode string `mapstructure:"default_country_code" yaml:"default_country_code"`
		Timezone           string `mapstructure:"timezone" yaml:"timezone"`
	} `mapstructure:"extraction" yaml:"extraction"`

	Categorization struct {
		RulesFile        string   `mapstructure:"rules_file" yaml:"rules_file"`
		MerchantPrefixes []string `mapstructure:"merchant_prefixes" yaml:"merchant_prefixes"`
		BankPrefixes     []string `mapstructure:"bank_prefixes" yaml:"bank_prefixes"`
	} `mapstructure:"categorization" yaml:"categorization"`
}

// Supported storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultSenders is the sender-label allow-list of mobile-money messages.
var DefaultSenders = []string{"M-Money", "MTN", "MoMo", "Mobile Money"}

// DefaultKeywords are body keywords that mark a message as mobile-money.
var DefaultKeywords = []string{
	"RWF", "UGX", "deposit", "withdraw", "transfer", "payment", "balance",
	"mobile money", "momo", "transaction", "TxId", "received", "sent",
	"completed", "fee", "new balance",
}

// InitializeConfig loads configuration from defaults, an optional config.yaml
// and MOMO_* environment variables, in increasing precedence.
func InitializeConfig() (*Config, error) {
	return InitializeConfigFrom("")
}

// InitializeConfigFrom behaves like InitializeConfig but reads the given file
// instead of searching the standard locations when configFile is not empty.
func InitializeConfigFrom(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.momo-ingest")
		v.AddConfigPath(".momo-ingest")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MOMO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The DSN is commonly provided as DATABASE_URL by hosting platforms.
	if err := v.BindEnv("storage.dsn", "MOMO_STORAGE_DSN", "DATABASE_URL"); err != nil {
		fmt.Printf("Warning: failed to bind DATABASE_URL environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.dsn", "momo.db")
	v.SetDefault("storage.log_level", "silent")
	v.SetDefault("storage.timeout_seconds", 30)

	v.SetDefault("pipeline.workers", 0) // 0 means runtime.NumCPU()
	v.SetDefault("pipeline.sequential_threshold", 100)
	v.SetDefault("pipeline.error_sample_size", 10)
	v.SetDefault("pipeline.error_snippet_length", 100)

	v.SetDefault("filter.senders", DefaultSenders)
	v.SetDefault("filter.keywords", DefaultKeywords)

	v.SetDefault("extraction.default_currency", "RWF")
	v.SetDefault("extraction.default_country_code", "250")
	v.SetDefault("extraction.timezone", "UTC")

	v.SetDefault("categorization.rules_file", "")
	v.SetDefault("categorization.merchant_prefixes", []string{"+256700", "+256701"})
	v.SetDefault("categorization.bank_prefixes", []string{"+256700"})
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Storage.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("storage.driver must be '%s' or '%s', got: %s", DriverSQLite, DriverPostgres, config.Storage.Driver)
	}

	if strings.TrimSpace(config.Storage.DSN) == "" {
		return fmt.Errorf("storage.dsn must not be empty")
	}

	switch strings.ToLower(config.Storage.LogLevel) {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("storage.log_level must be one of silent, error, warn, info, got: %s", config.Storage.LogLevel)
	}

	if config.Storage.TimeoutSeconds < 1 || config.Storage.TimeoutSeconds > 600 {
		return fmt.Errorf("storage.timeout_seconds must be between 1 and 600, got: %d", config.Storage.TimeoutSeconds)
	}

	if config.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline.workers must not be negative, got: %d", config.Pipeline.Workers)
	}

	if config.Pipeline.ErrorSampleSize < 1 {
		return fmt.Errorf("pipeline.error_sample_size must be at least 1, got: %d", config.Pipeline.ErrorSampleSize)
	}

	if config.Pipeline.ErrorSnippetLength < 10 {
		return fmt.Errorf("pipeline.error_snippet_length must be at least 10, got: %d", config.Pipeline.ErrorSnippetLength)
	}

	if len(config.Extraction.DefaultCurrency) != 3 {
		return fmt.Errorf("extraction.default_currency must be a 3-letter code, got: %s", config.Extraction.DefaultCurrency)
	}

	for _, r := range config.Extraction.DefaultCountryCode {
		if r < '0' || r > '9' {
			return fmt.Errorf("extraction.default_country_code must be digits, got: %s", config.Extraction.DefaultCountryCode)
		}
	}

	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger from the log section.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
