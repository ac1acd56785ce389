// Package ingest handles the ingestion of SMS backup archives into storage
package ingest

import (
	"context"
	"fmt"

	"momoledger/momo-ingest/cmd/common"
	"momoledger/momo-ingest/cmd/root"
	"momoledger/momo-ingest/internal/container"
	"momoledger/momo-ingest/internal/fileutils"
	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest [file|directory]",
	Short: "Ingest SMS backup archives into the transaction ledger",
	Long: `Ingest one SMS backup archive, or every .xml archive directly inside a directory.

Each archive is fingerprinted first: an archive whose size and content did not
change since its last successful run is skipped. Transactions already stored
are never written twice.

Example:
  momo-ingest ingest backups/sms-2024-05.xml
  momo-ingest ingest -i backups/`,
	Args: cobra.MaximumNArgs(1),
	RunE: ingestFunc,
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	input, err := common.ResolveInput(args)
	if err != nil {
		return err
	}

	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	root.Log.WithField("input", input).Info("Ingest command called")

	c, err := container.NewContainerWithLogger(cfg, root.Logger())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			root.Log.WithError(cerr).Warn("Failed to close storage")
		}
	}()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := common.SignalContext(parent)
	defer cancel()

	summaries, runErr := run(ctx, c, input)

	out, closeOut, err := common.OpenOutput(root.SharedFlags.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()

	if err := report.NewGenerator(c.GetLogger(), 0).WriteSummaries(out, summaries); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if runErr != nil {
		return runErr
	}
	if failed := common.CountFailed(summaries); failed > 0 {
		return fmt.Errorf("%d of %d archive(s) failed", failed, len(summaries))
	}
	return nil
}

func run(ctx context.Context, c *container.Container, input string) ([]*models.RunSummary, error) {
	p := c.GetPipeline()
	if fileutils.DirectoryExists(input) {
		return p.ProcessDirectory(ctx, input)
	}
	if !fileutils.FileExists(input) {
		return nil, fmt.Errorf("input not found: %s", input)
	}
	summary, err := p.ProcessFile(ctx, input)
	if summary == nil {
		return nil, err
	}
	return []*models.RunSummary{summary}, err
}
