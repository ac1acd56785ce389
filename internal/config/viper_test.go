package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, DriverSQLite, config.Storage.Driver)
	assert.Equal(t, "momo.db", config.Storage.DSN)
	assert.Equal(t, "silent", config.Storage.LogLevel)
	assert.Equal(t, 30, config.Storage.TimeoutSeconds)
	assert.Equal(t, 0, config.Pipeline.Workers)
	assert.Equal(t, 100, config.Pipeline.SequentialThreshold)
	assert.Equal(t, 10, config.Pipeline.ErrorSampleSize)
	assert.Equal(t, 100, config.Pipeline.ErrorSnippetLength)
	assert.Equal(t, DefaultSenders, config.Filter.Senders)
	assert.Contains(t, config.Filter.Keywords, "RWF")
	assert.Equal(t, "RWF", config.Extraction.DefaultCurrency)
	assert.Equal(t, "250", config.Extraction.DefaultCountryCode)
	assert.Equal(t, "UTC", config.Extraction.Timezone)
	assert.Empty(t, config.Categorization.RulesFile)
	assert.NotEmpty(t, config.Categorization.MerchantPrefixes)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)

	testEnvVars := map[string]string{
		"MOMO_LOG_LEVEL":                       "debug",
		"MOMO_LOG_FORMAT":                      "json",
		"MOMO_STORAGE_DRIVER":                  "postgres",
		"MOMO_STORAGE_DSN":                     "host=localhost user=momo dbname=momo",
		"MOMO_PIPELINE_WORKERS":                "4",
		"MOMO_EXTRACTION_TIMEZONE":             "Africa/Kigali",
		"MOMO_EXTRACTION_DEFAULT_CURRENCY":     "UGX",
		"MOMO_CATEGORIZATION_RULES_FILE":       "/etc/momo/categories.yaml",
		"MOMO_EXTRACTION_DEFAULT_COUNTRY_CODE": "256",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, DriverPostgres, config.Storage.Driver)
	assert.Equal(t, "host=localhost user=momo dbname=momo", config.Storage.DSN)
	assert.Equal(t, 4, config.Pipeline.Workers)
	assert.Equal(t, "Africa/Kigali", config.Extraction.Timezone)
	assert.Equal(t, "UGX", config.Extraction.DefaultCurrency)
	assert.Equal(t, "256", config.Extraction.DefaultCountryCode)
	assert.Equal(t, "/etc/momo/categories.yaml", config.Categorization.RulesFile)
}

func TestInitializeConfig_DatabaseURL(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)
	t.Setenv("DATABASE_URL", "postgres://momo@db/momo")

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://momo@db/momo", config.Storage.DSN)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := chdirTemp(t)

	configContent := `
log:
  level: "warn"
  format: "json"
storage:
  driver: "sqlite"
  dsn: "ledger.db"
  timeout_seconds: 5
pipeline:
  workers: 2
  sequential_threshold: 10
filter:
  senders: ["M-Money"]
  keywords: ["RWF"]
categorization:
  merchant_prefixes: ["+250788"]
`
	err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600)
	require.NoError(t, err)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "ledger.db", config.Storage.DSN)
	assert.Equal(t, 5, config.Storage.TimeoutSeconds)
	assert.Equal(t, 2, config.Pipeline.Workers)
	assert.Equal(t, 10, config.Pipeline.SequentialThreshold)
	assert.Equal(t, []string{"M-Money"}, config.Filter.Senders)
	assert.Equal(t, []string{"RWF"}, config.Filter.Keywords)
	assert.Equal(t, []string{"+250788"}, config.Categorization.MerchantPrefixes)
}

func TestInitializeConfigFrom_ExplicitFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := chdirTemp(t)

	path := filepath.Join(tempDir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0600))

	config, err := InitializeConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level)

	_, err = InitializeConfigFrom(filepath.Join(tempDir, "missing.yaml"))
	require.Error(t, err)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := chdirTemp(t)

	configContent := `
log:
  level: "warn"
pipeline:
  workers: 2
  error_sample_size: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))

	t.Setenv("MOMO_LOG_LEVEL", "error")
	t.Setenv("MOMO_PIPELINE_WORKERS", "8")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)          // env var wins
	assert.Equal(t, 8, config.Pipeline.Workers)         // env var wins
	assert.Equal(t, 5, config.Pipeline.ErrorSampleSize) // config file value
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "invalid log format",
		},
		{
			name:         "unknown storage driver",
			modifyConfig: func(c *Config) { c.Storage.Driver = "mysql" },
			expectError:  "storage.driver must be",
		},
		{
			name:         "empty dsn",
			modifyConfig: func(c *Config) { c.Storage.DSN = "  " },
			expectError:  "storage.dsn must not be empty",
		},
		{
			name:         "invalid storage log level",
			modifyConfig: func(c *Config) { c.Storage.LogLevel = "trace" },
			expectError:  "storage.log_level must be one of",
		},
		{
			name:         "invalid timeout",
			modifyConfig: func(c *Config) { c.Storage.TimeoutSeconds = 0 },
			expectError:  "storage.timeout_seconds must be between 1 and 600",
		},
		{
			name:         "negative workers",
			modifyConfig: func(c *Config) { c.Pipeline.Workers = -1 },
			expectError:  "pipeline.workers must not be negative",
		},
		{
			name:         "zero error sample size",
			modifyConfig: func(c *Config) { c.Pipeline.ErrorSampleSize = 0 },
			expectError:  "pipeline.error_sample_size must be at least 1",
		},
		{
			name:         "short snippet length",
			modifyConfig: func(c *Config) { c.Pipeline.ErrorSnippetLength = 3 },
			expectError:  "pipeline.error_snippet_length must be at least 10",
		},
		{
			name:         "bad currency",
			modifyConfig: func(c *Config) { c.Extraction.DefaultCurrency = "RW" },
			expectError:  "extraction.default_currency must be a 3-letter code",
		},
		{
			name:         "bad country code",
			modifyConfig: func(c *Config) { c.Extraction.DefaultCountryCode = "+250" },
			expectError:  "extraction.default_country_code must be digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaultTestConfig(t)
			require.NoError(t, validateConfig(config))

			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		format        string
		expectedLevel logrus.Level
		json          bool
	}{
		{name: "text format info level", level: "info", format: "text", expectedLevel: logrus.InfoLevel},
		{name: "json format debug level", level: "debug", format: "json", expectedLevel: logrus.DebugLevel, json: true},
		{name: "invalid level falls back to info", level: "loud", format: "text", expectedLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			config.Log.Level = tt.level
			config.Log.Format = tt.format

			logger := ConfigureLoggingFromConfig(config)
			require.NotNil(t, logger)
			assert.Equal(t, tt.expectedLevel, logger.GetLevel())
			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.json, isJSON)
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MOMO_TEST_PRESENT", "value")
	assert.Equal(t, "value", GetEnv("MOMO_TEST_PRESENT", "fallback"))
	assert.Equal(t, "fallback", GetEnv("MOMO_TEST_ABSENT_VARIABLE", "fallback"))
}

func defaultTestConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	var config Config
	require.NoError(t, v.Unmarshal(&config))
	return &config
}

// chdirTemp moves the test into an empty directory so no stray config.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	chdir(t, tempDir)
	return tempDir
}

// clearTestEnvVars unsets every variable the loader reads, restoring them after the test.
func clearTestEnvVars(t *testing.T) {
	envVars := []string{
		"MOMO_LOG_LEVEL",
		"MOMO_LOG_FORMAT",
		"MOMO_STORAGE_DRIVER",
		"MOMO_STORAGE_DSN",
		"MOMO_STORAGE_LOG_LEVEL",
		"MOMO_STORAGE_TIMEOUT_SECONDS",
		"MOMO_PIPELINE_WORKERS",
		"MOMO_PIPELINE_SEQUENTIAL_THRESHOLD",
		"MOMO_PIPELINE_ERROR_SAMPLE_SIZE",
		"MOMO_PIPELINE_ERROR_SNIPPET_LENGTH",
		"MOMO_EXTRACTION_DEFAULT_CURRENCY",
		"MOMO_EXTRACTION_DEFAULT_COUNTRY_CODE",
		"MOMO_EXTRACTION_TIMEZONE",
		"MOMO_CATEGORIZATION_RULES_FILE",
		"DATABASE_URL",
	}

	for _, envVar := range envVars {
		// t.Setenv registers a restore; the value is then removed for the test body.
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
