// Package root contains the root command for the application
package root

import (
	"sync"

	"momoledger/momo-ingest/internal/config"
	"momoledger/momo-ingest/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "momo-ingest",
		Short: "A CLI tool to ingest mobile-money SMS backups into a transaction ledger.",
		Long: `momo-ingest reads SMS backup archives, classifies mobile-money notifications,
extracts and categorizes the transactions they describe and stores them once.

Archives that did not change since the last successful run are skipped.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to momo-ingest!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
		},
	}

	// SharedFlags holds the persistent flags of every command
	SharedFlags = CommonFlags{}

	initOnce sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input archive file or directory")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: stdout)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: ./config.yaml or ~/.momo-ingest/config.yaml)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	})
}

// LoadConfig reads the configuration, applies flag overrides and reconfigures Log.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.InitializeConfigFrom(SharedFlags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	Log = config.ConfigureLoggingFromConfig(cfg)
	return cfg, nil
}

// Logger exposes Log to the application components.
func Logger() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}
