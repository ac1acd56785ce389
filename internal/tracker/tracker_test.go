package tracker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"momoledger/momo-ingest/internal/database"
	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T) *Tracker {
	t.Helper()
	db, err := database.Open(database.Options{Driver: database.DriverSQLite, DSN: ":memory:"}, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, logging.NewMockLogger())
}

func writeArchive(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShouldProcess_Lifecycle(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()
	path := writeArchive(t, t.TempDir(), "sms.xml", "<smses/>")

	d, err := tr.ShouldProcess(ctx, path)
	require.NoError(t, err)
	assert.True(t, d.Process)
	assert.Equal(t, ReasonNew, d.Reason)
	assert.Nil(t, d.Previous)

	require.NoError(t, tr.MarkProcessed(ctx, d.Fingerprint, 3, models.FileStatusSuccess, nil))

	d, err = tr.ShouldProcess(ctx, path)
	require.NoError(t, err)
	assert.False(t, d.Process)
	assert.Equal(t, ReasonUnchanged, d.Reason)
	require.NotNil(t, d.Previous)
	assert.Equal(t, 3, d.Previous.RecordsWritten)

	require.NoError(t, os.WriteFile(path, []byte("<smses></smses>"), 0600))
	d, err = tr.ShouldProcess(ctx, path)
	require.NoError(t, err)
	assert.True(t, d.Process)
	assert.Equal(t, ReasonChanged, d.Reason)

	require.NoError(t, tr.MarkProcessed(ctx, d.Fingerprint, 0, models.FileStatusFailed, errors.New("disk full")))
	d, err = tr.ShouldProcess(ctx, path)
	require.NoError(t, err)
	assert.True(t, d.Process)
	assert.Equal(t, ReasonRetryFailed, d.Reason)
	assert.Equal(t, "disk full", d.Previous.ErrorMessage)
}

func TestShouldProcess_MissingFile(t *testing.T) {
	tr := newTracker(t)
	_, err := tr.ShouldProcess(context.Background(), filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestSameNameDifferentDirectories(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()
	a := writeArchive(t, t.TempDir(), "sms.xml", "same")
	b := writeArchive(t, t.TempDir(), "sms.xml", "same")

	d, err := tr.ShouldProcess(ctx, a)
	require.NoError(t, err)
	require.NoError(t, tr.MarkProcessed(ctx, d.Fingerprint, 1, models.FileStatusSuccess, nil))

	d, err = tr.ShouldProcess(ctx, b)
	require.NoError(t, err)
	assert.True(t, d.Process)
	assert.Equal(t, ReasonNew, d.Reason)
}

func TestIsCurrent(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()
	path := writeArchive(t, t.TempDir(), "sms.xml", "content")

	d, err := tr.ShouldProcess(ctx, path)
	require.NoError(t, err)

	current, err := IsCurrent(tr.db.DB, d.Fingerprint)
	require.NoError(t, err)
	assert.False(t, current)

	require.NoError(t, Upsert(tr.db.DB, d.Fingerprint, 1, models.FileStatusFailed, nil))
	current, err = IsCurrent(tr.db.DB, d.Fingerprint)
	require.NoError(t, err)
	assert.False(t, current)

	require.NoError(t, Upsert(tr.db.DB, d.Fingerprint, 1, models.FileStatusSuccess, nil))
	current, err = IsCurrent(tr.db.DB, d.Fingerprint)
	require.NoError(t, err)
	assert.True(t, current)

	var count int64
	require.NoError(t, tr.db.Model(&database.FileRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProcessedFilesAndStats(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()
	dir := t.TempDir()

	stats, err := tr.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.FileStats{}, stats)

	ok1 := writeArchive(t, dir, "a.xml", "a")
	ok2 := writeArchive(t, dir, "b.xml", "b")
	bad := writeArchive(t, dir, "c.xml", "c")
	for path, outcome := range map[string]struct {
		records int
		status  models.FileStatus
	}{
		ok1: {records: 4, status: models.FileStatusSuccess},
		ok2: {records: 6, status: models.FileStatusSuccess},
		bad: {records: 0, status: models.FileStatusFailed},
	} {
		d, err := tr.ShouldProcess(ctx, path)
		require.NoError(t, err)
		require.NoError(t, tr.MarkProcessed(ctx, d.Fingerprint, outcome.records, outcome.status, nil))
	}

	files, err := tr.ProcessedFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 3)
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.AbsolutePath))
		assert.WithinDuration(t, time.Now(), f.ProcessedAt, time.Minute)
	}

	stats, err = tr.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.FileStats{TotalFiles: 3, Successful: 2, Failed: 1, TotalRecords: 10}, stats)
}

func TestLockSerializesSamePath(t *testing.T) {
	tr := newTracker(t)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := tr.Lock("/archives/sms.xml")
			defer release()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)

	// different paths do not block each other
	releaseA := tr.Lock("/a")
	releaseB := tr.Lock("/b")
	releaseA()
	releaseB()
}
