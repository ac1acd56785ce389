// Package parsererror defines the typed errors produced while reading,
// extracting, categorizing and storing mobile-money messages.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrMissingAmount is wrapped by ExtractionError when no positive amount could
// be read from a message.
var ErrMissingAmount = errors.New("amount not found")

// ErrNonPositiveAmount is wrapped by ExtractionError when the amount parsed to
// zero or less.
var ErrNonPositiveAmount = errors.New("amount must be positive")

// ParseError represents a value that could not be converted.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a record or file rejected before processing.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError is returned when an archive is not an SMS backup document.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// ExtractionError is the per-message extraction failure: the message kind was
// recognized but a mandatory field could not be read. It is never fatal for a
// run.
type ExtractionError struct {
	Kind    string
	Field   string
	Snippet string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("extraction failed for %s message, field '%s': %v. Text: '%s'",
			e.Kind, e.Field, e.Err, e.Snippet)
	}
	return fmt.Sprintf("extraction failed for %s message, field '%s': %v", e.Kind, e.Field, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// CategorizationError represents a categorization strategy failure.
type CategorizationError struct {
	Transaction string
	Strategy    string
	Err         error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("categorization failed for %s using %s: %v",
		e.Transaction, e.Strategy, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}

// StorageError is a fatal storage failure for one archive file. The file's
// batch has been rolled back when this is returned.
type StorageError struct {
	FilePath  string
	Operation string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure for '%s' during %s: %v", e.FilePath, e.Operation, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
