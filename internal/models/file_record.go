package models

import "time"

// FileStatus is the outcome of the last run over an archive file.
type FileStatus string

const (
	FileStatusSuccess FileStatus = "success"
	FileStatusFailed  FileStatus = "failed"
)

// FileProcessingRecord remembers what the last run saw for one archive file.
type FileProcessingRecord struct {
	FileName       string
	AbsolutePath   string
	SizeBytes      int64
	ContentHash    string
	RecordsWritten int
	Status         FileStatus
	ErrorMessage   string
	ProcessedAt    time.Time
}

// Matches reports whether the stored fingerprint equals (size, hash).
func (r FileProcessingRecord) Matches(size int64, hash string) bool {
	return r.SizeBytes == size && r.ContentHash == hash
}

// FileStats aggregates all tracked files.
type FileStats struct {
	TotalFiles   int64 `csv:"total_files"`
	Successful   int64 `csv:"successful"`
	Failed       int64 `csv:"failed"`
	TotalRecords int64 `csv:"total_records"`
}
