package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/smsbackup"
)

// Preview is a dry run over one archive: nothing is stored.
type Preview struct {
	File           string
	Archive        *smsbackup.ArchiveInfo
	Summary        *models.RunSummary
	Categorization models.CategorizationStats
	Sample         []models.ParsedTransaction
}

// Preview parses, classifies and categorizes path without touching storage
// or the change tracker. At most sampleSize transactions are returned.
func (p *Pipeline) Preview(ctx context.Context, path string, sampleSize int) (*Preview, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if err := smsbackup.ValidateFormat(abs); err != nil {
		return nil, err
	}
	info, err := smsbackup.Inspect(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect archive: %w", err)
	}

	summary := models.NewRunSummary(abs, p.opts.ErrorSampleSize, p.opts.ErrorSnippetLength)
	txs, stats, err := p.extract(ctx, abs, summary)
	if err != nil {
		summary.MarkFailed(err)
		return nil, err
	}
	summary.Complete()

	if sampleSize < 0 {
		sampleSize = 0
	}
	if len(txs) > sampleSize {
		txs = txs[:sampleSize]
	}
	return &Preview{
		File:           abs,
		Archive:        info,
		Summary:        summary,
		Categorization: stats,
		Sample:         txs,
	}, nil
}
