// Package status reports which archives have been processed
package status

import (
	"context"
	"fmt"
	"unicode/utf8"

	"momoledger/momo-ingest/cmd/common"
	"momoledger/momo-ingest/cmd/root"
	"momoledger/momo-ingest/internal/container"
	"momoledger/momo-ingest/internal/report"

	"github.com/spf13/cobra"
)

var (
	// AsCSV selects CSV output instead of a table
	AsCSV bool
	// Delimiter is the CSV field delimiter
	Delimiter string
)

// Cmd represents the status command
var Cmd = &cobra.Command{
	Use:   "status",
	Short: "Show processed archives and their outcome",
	Long: `List every archive the change tracker knows about with its last outcome,
the number of records written and the aggregated totals.`,
	Args: cobra.NoArgs,
	RunE: statusFunc,
}

func init() {
	Cmd.Flags().BoolVar(&AsCSV, "csv", false, "Write the file list as CSV")
	Cmd.Flags().StringVar(&Delimiter, "delimiter", ",", "CSV field delimiter")
}

func statusFunc(cmd *cobra.Command, args []string) error {
	delim, size := utf8.DecodeRuneInString(Delimiter)
	if size == 0 || size != len(Delimiter) {
		return fmt.Errorf("delimiter must be a single character, got %q", Delimiter)
	}

	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	c, err := container.NewContainerWithLogger(cfg, root.Logger())
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := c.GetTracker().ProcessedFiles(ctx)
	if err != nil {
		return err
	}
	stats, err := c.GetTracker().Stats(ctx)
	if err != nil {
		return err
	}

	out, closeOut, err := common.OpenOutput(root.SharedFlags.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()

	format := report.FormatText
	if AsCSV {
		format = report.FormatCSV
	}
	return report.NewGenerator(c.GetLogger(), delim).GenerateStatus(out, files, stats, format)
}
