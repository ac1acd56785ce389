// Package writer persists extracted transactions idempotently. One archive
// file is written in one database transaction together with its run log and
// file record.
package writer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"momoledger/momo-ingest/internal/database"
	"momoledger/momo-ingest/internal/fileutils"
	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/parsererror"
	"momoledger/momo-ingest/internal/tracker"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cache lifetimes for resolved entity ids.
const (
	DefaultCacheExpiration = 30 * time.Minute
	DefaultCacheCleanup    = 10 * time.Minute
)

// FileRun identifies the archive file being written.
type FileRun struct {
	Fingerprint fileutils.Fingerprint
	Summary     *models.RunSummary
}

// WriteResult counts what happened to the batch.
type WriteResult struct {
	Written    int
	Duplicates int
	Excluded   int
	// Skipped is set when another run already committed the same content.
	Skipped bool

	// exclusions reach the summary only once the batch is committed.
	exclusions []string
}

// Writer is the single serialized storage stage of a file run.
type Writer struct {
	db     *database.DB
	ids    *cache.Cache
	logger logging.Logger
}

// New creates a writer over db.
func New(db *database.DB, logger logging.Logger) *Writer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Writer{
		db:     db,
		ids:    cache.New(DefaultCacheExpiration, DefaultCacheCleanup),
		logger: logger,
	}
}

// Write stores txs for run. Transactions failing validation are excluded
// and sampled into the summary; duplicates are counted, not errors. Any
// storage failure rolls the whole file back and is returned as
// *parsererror.StorageError. On success the summary is completed.
func (w *Writer) Write(ctx context.Context, run FileRun, txs []models.ParsedTransaction) (*WriteResult, error) {
	if run.Summary == nil {
		return nil, fmt.Errorf("file run without summary")
	}

	ctx, cancel := w.db.Context(ctx)
	defer cancel()

	var result *WriteResult
	pending := make(map[string]string)

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result = &WriteResult{}
		clear(pending)

		current, err := tracker.IsCurrent(tx, run.Fingerprint)
		if err != nil {
			return fmt.Errorf("re-check file record: %w", err)
		}
		if current {
			result.Skipped = true
			return nil
		}

		for i := range txs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := w.insert(tx, run, &txs[i], pending, result); err != nil {
				return err
			}
		}

		summary := *run.Summary
		summary.Errors = slices.Clone(run.Summary.Errors)
		summary.TotalWritten = result.Written
		summary.Duplicates = result.Duplicates
		summary.Excluded = result.Excluded
		for _, e := range result.exclusions {
			summary.AddError(e)
		}
		summary.Complete()

		if err := tx.Create(runLogFromSummary(&summary)).Error; err != nil {
			return fmt.Errorf("insert run log: %w", err)
		}
		if err := tracker.Upsert(tx, run.Fingerprint, result.Written, models.FileStatusSuccess, nil); err != nil {
			return fmt.Errorf("upsert file record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &parsererror.StorageError{FilePath: run.Fingerprint.AbsPath, Operation: "write batch", Err: err}
	}

	for k, v := range pending {
		w.ids.SetDefault(k, v)
	}

	if result.Skipped {
		run.Summary.MarkSkipped()
		w.logger.Info("File already committed by another run, skipping",
			logging.F(logging.FieldFile, run.Fingerprint.AbsPath))
		return result, nil
	}

	run.Summary.TotalWritten = result.Written
	run.Summary.Duplicates = result.Duplicates
	run.Summary.Excluded = result.Excluded
	for _, e := range result.exclusions {
		run.Summary.AddError(e)
	}
	run.Summary.Complete()

	w.logger.Info("Batch committed",
		logging.F(logging.FieldFile, run.Fingerprint.AbsPath),
		logging.F(logging.FieldRunID, run.Summary.RunID),
		logging.F(logging.FieldWritten, result.Written),
		logging.F(logging.FieldDuplicates, result.Duplicates),
		logging.F("excluded", result.Excluded))
	return result, nil
}

func (w *Writer) insert(tx *gorm.DB, run FileRun, t *models.ParsedTransaction, pending map[string]string, result *WriteResult) error {
	if err := t.Validate(); err != nil {
		result.Excluded++
		result.exclusions = append(result.exclusions, fmt.Sprintf("excluded %s: %v", t.Kind, err))
		w.logger.WithError(err).Warn("Transaction failed validation, excluded",
			logging.F(logging.FieldKind, t.Kind),
			logging.F(logging.FieldFile, run.Fingerprint.AbsPath))
		return nil
	}

	cpID, err := w.counterpartyID(tx, t, pending)
	if err != nil {
		return fmt.Errorf("resolve counterparty: %w", err)
	}
	catID, err := w.categoryID(tx, t.Group, pending)
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}

	row := toRow(t, run, cpID, catID)
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dedup_key"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return fmt.Errorf("insert transaction: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		result.Duplicates++
		w.logger.Debug("Duplicate transaction ignored",
			logging.F(logging.FieldDedupKey, row.DedupKey),
			logging.F(logging.FieldKind, t.Kind))
		return nil
	}
	result.Written++
	return nil
}

func (w *Writer) counterpartyID(tx *gorm.DB, t *models.ParsedTransaction, pending map[string]string) (*string, error) {
	if t.CounterpartyPhone == nil || *t.CounterpartyPhone == "" {
		return nil, nil
	}
	phone := *t.CounterpartyPhone
	key := "cp:" + phone
	if id, ok := w.lookup(key, pending); ok {
		return &id, nil
	}

	cp := database.Counterparty{}
	attrs := database.Counterparty{}
	if t.CounterpartyName != nil {
		attrs.Name = *t.CounterpartyName
	}
	if err := tx.Where(database.Counterparty{Phone: phone}).Attrs(attrs).FirstOrCreate(&cp).Error; err != nil {
		return nil, err
	}
	pending[key] = cp.ID
	return &cp.ID, nil
}

func (w *Writer) categoryID(tx *gorm.DB, name string, pending map[string]string) (*string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	key := "cat:" + name
	if id, ok := w.lookup(key, pending); ok {
		return &id, nil
	}

	cat := database.Category{}
	if err := tx.Where(database.Category{Name: name}).Attrs(database.Category{Code: CategoryCode(name)}).FirstOrCreate(&cat).Error; err != nil {
		return nil, err
	}
	pending[key] = cat.ID
	return &cat.ID, nil
}

func (w *Writer) lookup(key string, pending map[string]string) (string, bool) {
	if id, ok := pending[key]; ok {
		return id, true
	}
	if v, ok := w.ids.Get(key); ok {
		return v.(string), true
	}
	return "", false
}

// RecordFailure stores the run log of a failed run and marks the file
// failed, outside the rolled-back transaction, so the next run retries it.
func (w *Writer) RecordFailure(ctx context.Context, run FileRun, cause error) error {
	if run.Summary == nil {
		return fmt.Errorf("file run without summary")
	}
	run.Summary.MarkFailed(cause)

	// A cancelled parent must not prevent the failure from being recorded.
	ctx, cancel := w.db.Context(context.WithoutCancel(ctx))
	defer cancel()

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(runLogFromSummary(run.Summary)).Error; err != nil {
			return fmt.Errorf("insert run log: %w", err)
		}
		return tracker.Upsert(tx, run.Fingerprint, 0, models.FileStatusFailed, cause)
	})
	if err != nil {
		return &parsererror.StorageError{FilePath: run.Fingerprint.AbsPath, Operation: "record failure", Err: err}
	}

	w.logger.Warn("Run failed, file marked for retry",
		logging.F(logging.FieldFile, run.Fingerprint.AbsPath),
		logging.F(logging.FieldRunID, run.Summary.RunID),
		logging.F(logging.FieldError, errorText(cause)))
	return nil
}

// CategoryCode is the first three letters of name, upper-cased.
func CategoryCode(name string) string {
	r := []rune(strings.ToUpper(strings.TrimSpace(name)))
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

func toRow(t *models.ParsedTransaction, run FileRun, cpID, catID *string) database.Transaction {
	row := database.Transaction{
		DedupKey:               t.DedupKey(),
		RunID:                  run.Summary.RunID,
		Kind:                   string(t.Kind),
		Direction:              string(t.Direction),
		Status:                 string(t.Status),
		Amount:                 t.Amount.Amount.Round(2),
		Currency:               t.Amount.Currency,
		Fee:                    t.Fee.Round(2),
		FineCategory:           t.Category,
		CategoryID:             catID,
		CategoryConfidence:     t.CategoryConfidence,
		CounterpartyID:         cpID,
		CounterpartyName:       t.CounterpartyName,
		AgentOrBusinessID:      t.AgentOrBusinessID,
		TransactionID:          t.TransactionID,
		FinancialTransactionID: t.FinancialTransactionID,
		ExternalTransactionID:  t.ExternalTransactionID,
		OccurredAt:             t.OccurredAt,
		Confidence:             t.Confidence,
		OriginalText:           t.OriginalText,
		SourceFile:             run.Fingerprint.AbsPath,
	}
	if t.ResultingBalance != nil {
		row.Balance = decimal.NewNullDecimal(t.ResultingBalance.Round(2))
	}
	return row
}

func runLogFromSummary(s *models.RunSummary) *database.RunLog {
	return &database.RunLog{
		RunID:         s.RunID,
		FilePath:      s.File,
		Status:        string(s.Status),
		TotalMessages: s.TotalMessages,
		Filtered:      s.Filtered,
		Processed:     s.TotalProcessed,
		Written:       s.TotalWritten,
		Duplicates:    s.Duplicates,
		Failed:        s.Failed,
		Unrecognized:  s.Unrecognized,
		ErrorMessage:  s.ErrorMessage,
		ErrorSamples:  datatypes.NewJSONSlice(slices.Clone(s.Errors)),
		StartedAt:     s.StartedAt.UTC(),
		FinishedAt:    s.StartedAt.Add(s.Duration).UTC(),
		DurationMs:    s.Duration.Milliseconds(),
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	var se *parsererror.StorageError
	if errors.As(err, &se) {
		return se.Err.Error()
	}
	return err.Error()
}
