// Package pipeline drives archive files through filter, classification,
// extraction, categorization and the idempotent writer, gated by the change
// tracker.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"momoledger/momo-ingest/internal/categorizer"
	"momoledger/momo-ingest/internal/classifier"
	"momoledger/momo-ingest/internal/extractor"
	"momoledger/momo-ingest/internal/fileutils"
	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/smsbackup"
	"momoledger/momo-ingest/internal/tracker"
	"momoledger/momo-ingest/internal/writer"
)

// ArchiveExtension selects the files ProcessDirectory picks up.
const ArchiveExtension = ".xml"

// Outcome is the per-message result of the processing stage.
type Outcome struct {
	Kind   models.MessageKind
	Rule   string
	Tx     *models.ParsedTransaction
	Result categorizer.Result
	Err    error
}

// Options tunes the pipeline.
type Options struct {
	Workers             int
	SequentialThreshold int
	ErrorSampleSize     int
	ErrorSnippetLength  int
}

// Components are the collaborators of a Pipeline. Tracker and Writer may be
// nil for a preview-only pipeline.
type Components struct {
	Reader      *smsbackup.Reader
	Filter      *smsbackup.Filter
	Extractor   *extractor.Extractor
	Categorizer *categorizer.Categorizer
	Tracker     *tracker.Tracker
	Writer      *writer.Writer
}

// Pipeline processes archive files.
type Pipeline struct {
	c         Components
	opts      Options
	processor *ConcurrentProcessor
	logger    logging.Logger
}

// New creates a pipeline.
func New(c Components, opts Options, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Pipeline{
		c:         c,
		opts:      opts,
		processor: NewConcurrentProcessor(logger, opts.Workers, opts.SequentialThreshold),
		logger:    logger,
	}
}

// ProcessFile ingests one archive. Unchanged files are skipped without
// reading their messages. Per-message problems are counted in the summary;
// the returned error is a file-level failure, already recorded unless the
// context was cancelled.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*models.RunSummary, error) {
	if p.c.Tracker == nil || p.c.Writer == nil {
		return nil, fmt.Errorf("pipeline has no storage configured")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	summary := models.NewRunSummary(abs, p.opts.ErrorSampleSize, p.opts.ErrorSnippetLength)
	logger := p.logger.WithFields(
		logging.F(logging.FieldFile, abs),
		logging.F(logging.FieldRunID, summary.RunID))

	release := p.c.Tracker.Lock(abs)
	defer release()

	decision, err := p.c.Tracker.ShouldProcess(ctx, abs)
	if err != nil {
		summary.MarkFailed(err)
		logger.WithError(err).Error("Change check failed")
		return summary, err
	}
	if !decision.Process {
		summary.MarkSkipped()
		logger.Info("File unchanged since last successful run, skipping")
		return summary, nil
	}
	logger.Info("Processing archive", logging.F(logging.FieldReason, decision.Reason))

	run := writer.FileRun{Fingerprint: decision.Fingerprint, Summary: summary}

	txs, _, err := p.extract(ctx, abs, summary)
	if err != nil {
		return summary, p.fail(ctx, run, err, logger)
	}

	if _, err := p.c.Writer.Write(ctx, run, txs); err != nil {
		return summary, p.fail(ctx, run, err, logger)
	}

	p.logSummary(logger, summary)
	return summary, nil
}

// ProcessDirectory ingests every archive directly inside dir, one file at a
// time. A failing file does not stop the others; only cancellation does.
func (p *Pipeline) ProcessDirectory(ctx context.Context, dir string) ([]*models.RunSummary, error) {
	files, err := fileutils.ListFilesWithExtension(dir, ArchiveExtension)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Processing directory",
		logging.F(logging.FieldFile, dir),
		logging.F(logging.FieldCount, len(files)))

	summaries := make([]*models.RunSummary, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}
		summary, err := p.ProcessFile(ctx, file)
		if summary != nil {
			summaries = append(summaries, summary)
		}
		if err != nil {
			if ctx.Err() != nil {
				return summaries, ctx.Err()
			}
			p.logger.WithError(err).Warn("Archive failed, continuing with next file",
				logging.F(logging.FieldFile, file))
		}
	}
	return summaries, nil
}

// extract reads, filters, classifies, extracts and categorizes the messages
// of path, filling the counters of summary.
func (p *Pipeline) extract(ctx context.Context, path string, summary *models.RunSummary) ([]models.ParsedTransaction, models.CategorizationStats, error) {
	var stats models.CategorizationStats

	if err := smsbackup.ValidateFormat(path); err != nil {
		return nil, stats, err
	}
	messages, err := p.c.Reader.ReadFile(ctx, path)
	if err != nil {
		return nil, stats, err
	}
	summary.TotalMessages = len(messages)

	candidates, rejected := p.c.Filter.Apply(messages)
	summary.Filtered = len(candidates)
	p.logger.Debug("Filtered messages",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(candidates)),
		logging.F("rejected", rejected))

	outcomes, err := p.processor.Process(ctx, candidates, p.handle)
	if err != nil {
		return nil, stats, err
	}

	txs := make([]models.ParsedTransaction, 0, len(outcomes))
	for _, o := range outcomes {
		summary.CountKind(o.Kind)
		switch {
		case !o.Kind.Recognized():
			summary.Unrecognized++
		case o.Err != nil:
			summary.Failed++
			summary.AddError(o.Err.Error())
			if o.Tx != nil {
				stats.Total++
				stats.Failed++
			}
		default:
			summary.TotalProcessed++
			stats.Total++
			switch o.Result.Strategy {
			case categorizer.StrategyKindMapping:
				stats.ByKind++
			case categorizer.StrategyRuleScoring:
				stats.ByRules++
			default:
				stats.Uncategorized++
			}
			txs = append(txs, *o.Tx)
		}
	}
	stats.LogSummary(p.logger, path)
	return txs, stats, nil
}

func (p *Pipeline) handle(ctx context.Context, msg models.RawMessage) Outcome {
	kind, rule := classifier.ClassifyWithRule(msg.Body)
	out := Outcome{Kind: kind, Rule: rule}
	if !kind.Recognized() {
		return out
	}

	tx, err := p.c.Extractor.Extract(msg.Body, kind, msg.Timestamp)
	if err != nil {
		out.Err = err
		return out
	}
	out.Tx = tx

	res, err := p.c.Categorizer.Apply(ctx, tx)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = res
	return out
}

// fail records a file-level failure. Cancellation leaves storage untouched.
func (p *Pipeline) fail(ctx context.Context, run writer.FileRun, cause error, logger logging.Logger) error {
	if ctx.Err() != nil {
		run.Summary.MarkFailed(cause)
		logger.Warn("Run cancelled, nothing committed")
		return cause
	}

	logger.WithError(cause).Error("Archive processing failed")
	if err := p.c.Writer.RecordFailure(ctx, run, cause); err != nil {
		logger.WithError(err).Error("Failed to record run failure")
		return errors.Join(cause, err)
	}
	return cause
}

func (p *Pipeline) logSummary(logger logging.Logger, s *models.RunSummary) {
	fields := []logging.Field{
		logging.F(logging.FieldStatus, s.Status),
		logging.F("total_messages", s.TotalMessages),
		logging.F("filtered", s.Filtered),
		logging.F("processed", s.TotalProcessed),
		logging.F(logging.FieldWritten, s.TotalWritten),
		logging.F(logging.FieldDuplicates, s.Duplicates),
		logging.F(logging.FieldFailed, s.Failed),
		logging.F("unrecognized", s.Unrecognized),
		logging.F(logging.FieldDuration, s.Duration.Milliseconds()),
	}
	for _, kind := range s.SortedKinds() {
		fields = append(fields, logging.F("kind_"+string(kind), s.KindCounts[kind]))
	}
	logger.Info("Archive processed", fields...)
	for _, e := range s.Errors {
		logger.Debug("Sampled message error", logging.F(logging.FieldError, e))
	}
}
