package logging

// Field names shared by every component so log lines can be filtered
// consistently.
const (
	FieldFile          = "file_path"
	FieldRunID         = "run_id"
	FieldKind          = "kind"
	FieldCategory      = "category"
	FieldStrategy      = "strategy"
	FieldConfidence    = "confidence"
	FieldTransactionID = "transaction_id"
	FieldDedupKey      = "dedup_key"
	FieldStatus        = "status"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
	FieldCount         = "count"
	FieldWritten       = "written"
	FieldDuplicates    = "duplicates"
	FieldFailed        = "failed"
	FieldWorkers       = "workers"
	FieldDriver        = "driver"
	FieldHash          = "content_hash"
)
