// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"momoledger/momo-ingest/cmd/root"
	"momoledger/momo-ingest/internal/fileutils"
	"momoledger/momo-ingest/internal/models"
)

// ErrNoInput is returned when neither an argument nor --input names a path.
var ErrNoInput = errors.New("an input file or directory is required (argument or --input)")

// ResolveInput returns the first positional argument, falling back to --input.
func ResolveInput(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if root.SharedFlags.Input != "" {
		return root.SharedFlags.Input, nil
	}
	return "", ErrNoInput
}

// SignalContext is cancelled on SIGINT or SIGTERM so that an interrupted run
// leaves storage untouched.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// OpenOutput returns fallback when path is empty and a newly created file
// otherwise. The returned close function is always safe to call.
func OpenOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := fileutils.CreateFile(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// CountFailed returns how many summaries ended in error.
func CountFailed(summaries []*models.RunSummary) int {
	n := 0
	for _, s := range summaries {
		if s != nil && s.Status == models.RunStatusError {
			n++
		}
	}
	return n
}
