// Package tracker decides whether an archive file needs processing by
// comparing its content fingerprint with the stored record of the last run.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"momoledger/momo-ingest/internal/database"
	"momoledger/momo-ingest/internal/fileutils"
	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/parsererror"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Decision reasons.
const (
	ReasonNew         = "new"
	ReasonChanged     = "changed"
	ReasonRetryFailed = "retry_failed"
	ReasonUnchanged   = "unchanged"
)

// Decision is the outcome of ShouldProcess.
type Decision struct {
	Process     bool
	Reason      string
	Fingerprint fileutils.Fingerprint
	Previous    *models.FileProcessingRecord
}

// Tracker stores file fingerprints and serializes work per path.
type Tracker struct {
	db     *database.DB
	logger logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a tracker over db.
func New(db *database.DB, logger logging.Logger) *Tracker {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Tracker{db: db, logger: logger, locks: make(map[string]*sync.Mutex)}
}

// Lock serializes runs over the same absolute path within this process.
// The returned func releases the lock.
func (t *Tracker) Lock(absPath string) func() {
	t.mu.Lock()
	l, ok := t.locks[absPath]
	if !ok {
		l = &sync.Mutex{}
		t.locks[absPath] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// ShouldProcess fingerprints path and compares it with the stored record.
// Unchanged files whose last run succeeded are skipped; new, changed and
// previously failed files are processed.
func (t *Tracker) ShouldProcess(ctx context.Context, path string) (Decision, error) {
	fp, err := fileutils.FingerprintFile(path)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to fingerprint %s: %w", path, err)
	}

	ctx, cancel := t.db.Context(ctx)
	defer cancel()

	prev, err := Lookup(t.db.WithContext(ctx), fp)
	if err != nil {
		return Decision{}, &parsererror.StorageError{FilePath: fp.AbsPath, Operation: "lookup file record", Err: err}
	}

	d := Decision{Process: true, Fingerprint: fp, Previous: prev}
	switch {
	case prev == nil:
		d.Reason = ReasonNew
	case !prev.Matches(fp.Size, fp.Hash):
		d.Reason = ReasonChanged
	case prev.Status == models.FileStatusFailed:
		d.Reason = ReasonRetryFailed
	default:
		d.Process = false
		d.Reason = ReasonUnchanged
	}

	t.logger.Debug("File change check",
		logging.F(logging.FieldFile, fp.AbsPath),
		logging.F(logging.FieldHash, fp.Hash),
		logging.F(logging.FieldReason, d.Reason))
	return d, nil
}

// MarkProcessed upserts the record of fp outside any running transaction.
// The writer records successful runs itself; this is used for failures.
func (t *Tracker) MarkProcessed(ctx context.Context, fp fileutils.Fingerprint, records int, status models.FileStatus, procErr error) error {
	ctx, cancel := t.db.Context(ctx)
	defer cancel()

	if err := Upsert(t.db.WithContext(ctx), fp, records, status, procErr); err != nil {
		return &parsererror.StorageError{FilePath: fp.AbsPath, Operation: "mark file processed", Err: err}
	}
	return nil
}

// ProcessedFiles lists every tracked file, most recent first.
func (t *Tracker) ProcessedFiles(ctx context.Context) ([]models.FileProcessingRecord, error) {
	ctx, cancel := t.db.Context(ctx)
	defer cancel()

	var rows []database.FileRecord
	if err := t.db.WithContext(ctx).Order("last_processed_at DESC").Order("file_path").Find(&rows).Error; err != nil {
		return nil, &parsererror.StorageError{Operation: "list file records", Err: err}
	}

	out := make([]models.FileProcessingRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, toModel(r))
	}
	return out, nil
}

// Stats aggregates all tracked files.
func (t *Tracker) Stats(ctx context.Context) (models.FileStats, error) {
	ctx, cancel := t.db.Context(ctx)
	defer cancel()

	var stats models.FileStats
	err := t.db.WithContext(ctx).Model(&database.FileRecord{}).
		Select(`COUNT(*) AS total_files,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS successful,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS failed,
			COALESCE(SUM(records_processed), 0) AS total_records`,
			string(models.FileStatusSuccess), string(models.FileStatusFailed)).
		Scan(&stats).Error
	if err != nil {
		return models.FileStats{}, &parsererror.StorageError{Operation: "file statistics", Err: err}
	}
	return stats, nil
}

// Lookup returns the stored record for fp's identity, or nil.
func Lookup(db *gorm.DB, fp fileutils.Fingerprint) (*models.FileProcessingRecord, error) {
	var rows []database.FileRecord
	err := db.Where("file_name = ? AND file_path = ?", fp.Name, fp.AbsPath).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rec := toModel(rows[0])
	return &rec, nil
}

// IsCurrent reports whether the stored record already covers fp with a
// successful run. The writer calls it inside its transaction.
func IsCurrent(db *gorm.DB, fp fileutils.Fingerprint) (bool, error) {
	prev, err := Lookup(db, fp)
	if err != nil || prev == nil {
		return false, err
	}
	return prev.Matches(fp.Size, fp.Hash) && prev.Status == models.FileStatusSuccess, nil
}

// Upsert inserts or replaces the record for fp's identity.
func Upsert(db *gorm.DB, fp fileutils.Fingerprint, records int, status models.FileStatus, procErr error) error {
	rec := database.FileRecord{
		FileName:         fp.Name,
		FilePath:         fp.AbsPath,
		FileSize:         fp.Size,
		ContentHash:      fp.Hash,
		RecordsProcessed: records,
		Status:           string(status),
		LastProcessedAt:  time.Now().UTC(),
	}
	if procErr != nil {
		rec.ErrorMessage = procErr.Error()
	}

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "file_name"}, {Name: "file_path"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"file_size", "content_hash", "records_processed", "status",
			"error_message", "last_processed_at", "updated_at",
		}),
	}).Create(&rec).Error
}

func toModel(r database.FileRecord) models.FileProcessingRecord {
	return models.FileProcessingRecord{
		FileName:       r.FileName,
		AbsolutePath:   r.FilePath,
		SizeBytes:      r.FileSize,
		ContentHash:    r.ContentHash,
		RecordsWritten: r.RecordsProcessed,
		Status:         models.FileStatus(r.Status),
		ErrorMessage:   r.ErrorMessage,
		ProcessedAt:    r.LastProcessedAt,
	}
}
