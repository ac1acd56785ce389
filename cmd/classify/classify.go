// Package classify handles dry-run classification of an archive
package classify

import (
	"context"
	"fmt"

	"momoledger/momo-ingest/cmd/common"
	"momoledger/momo-ingest/cmd/root"
	"momoledger/momo-ingest/internal/container"
	"momoledger/momo-ingest/internal/report"

	"github.com/spf13/cobra"
)

// DefaultSampleSize is the number of transactions printed by default.
const DefaultSampleSize = 10

// SampleSize is the number of extracted transactions to print
var SampleSize int

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Classify and extract an archive without storing anything",
	Long: `Classify every mobile-money message of an SMS backup archive, extract and
categorize its transactions and print what an ingest would store.

Nothing is written to storage and the archive is not marked as processed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: classifyFunc,
}

func init() {
	Cmd.Flags().IntVarP(&SampleSize, "sample", "n", DefaultSampleSize, "Number of transactions to print")
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	input, err := common.ResolveInput(args)
	if err != nil {
		return err
	}

	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	root.Log.WithField("input", input).Info("Classify command called")

	c, err := container.NewPreviewContainerWithLogger(cfg, root.Logger())
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := common.SignalContext(parent)
	defer cancel()

	preview, err := c.GetPipeline().Preview(ctx, input, SampleSize)
	if err != nil {
		return err
	}

	out, closeOut, err := common.OpenOutput(root.SharedFlags.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()

	if err := report.NewGenerator(c.GetLogger(), 0).WritePreview(out, preview); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}
