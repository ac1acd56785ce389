package main

import (
	"fmt"
	"os"
	"strings"

	"momoledger/momo-ingest/cmd/classify"
	"momoledger/momo-ingest/cmd/ingest"
	"momoledger/momo-ingest/cmd/root"
	"momoledger/momo-ingest/cmd/rules"
	"momoledger/momo-ingest/cmd/status"
	"momoledger/momo-ingest/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// Environment first, so LOG_LEVEL from .env applies before anything logs
	config.LoadEnv()
	configureLogLevel()

	root.Init()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(status.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

// configureLogLevel sets the level of the global and command loggers from
// LOG_LEVEL, defaulting to info.
func configureLogLevel() {
	level, err := logrus.ParseLevel(strings.ToLower(config.GetEnv("LOG_LEVEL", "info")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	root.Log.SetLevel(level)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
