package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the operator-facing outcome of one archive file run.
type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusWarning RunStatus = "warning"
	RunStatusError   RunStatus = "error"
	RunStatusSkipped RunStatus = "skipped"
)

// Defaults for error sampling in run summaries.
const (
	DefaultErrorSampleSize    = 10
	DefaultErrorSnippetLength = 100
)

// RunSummary reports what happened to one archive file.
type RunSummary struct {
	RunID  string
	File   string
	Status RunStatus

	TotalMessages  int
	Filtered       int
	TotalProcessed int
	TotalWritten   int
	Duplicates     int
	Failed         int
	Unrecognized   int
	Excluded       int

	StartedAt  time.Time
	Duration   time.Duration
	KindCounts map[MessageKind]int

	// Errors holds the first ErrorLimit messages, each truncated.
	Errors       []string
	ErrorMessage string

	errorLimit    int
	snippetLength int
}

// NewRunSummary starts a summary for file with a fresh run id.
func NewRunSummary(file string, errorLimit, snippetLength int) *RunSummary {
	if errorLimit <= 0 {
		errorLimit = DefaultErrorSampleSize
	}
	if snippetLength <= 0 {
		snippetLength = DefaultErrorSnippetLength
	}
	return &RunSummary{
		RunID:         uuid.NewString(),
		File:          file,
		StartedAt:     time.Now(),
		KindCounts:    make(map[MessageKind]int),
		errorLimit:    errorLimit,
		snippetLength: snippetLength,
	}
}

// AddError keeps msg when the sample is not full yet.
func (s *RunSummary) AddError(msg string) {
	if len(s.Errors) >= s.errorLimit {
		return
	}
	r := []rune(msg)
	if len(r) > s.snippetLength {
		msg = string(r[:s.snippetLength]) + "..."
	}
	s.Errors = append(s.Errors, msg)
}

// CountKind increments the per-kind counter.
func (s *RunSummary) CountKind(kind MessageKind) {
	s.KindCounts[kind]++
}

// Dropped is the number of candidate messages that produced no row.
func (s *RunSummary) Dropped() int {
	return s.Failed + s.Unrecognized + s.Excluded
}

// MarkSkipped finishes the summary as an unchanged-file no-op.
func (s *RunSummary) MarkSkipped() {
	s.Status = RunStatusSkipped
	s.Duration = time.Since(s.StartedAt)
}

// MarkFailed finishes the summary as a failed run.
func (s *RunSummary) MarkFailed(err error) {
	s.Status = RunStatusError
	if err != nil {
		s.ErrorMessage = err.Error()
	}
	s.Duration = time.Since(s.StartedAt)
}

// Complete finishes a run that reached storage: warning when messages were
// dropped, success otherwise.
func (s *RunSummary) Complete() {
	s.Status = RunStatusSuccess
	if s.Dropped() > 0 {
		s.Status = RunStatusWarning
	}
	s.Duration = time.Since(s.StartedAt)
}

// SortedKinds returns the kinds seen in this run in enumeration order.
func (s *RunSummary) SortedKinds() []MessageKind {
	order := make(map[MessageKind]int, len(allKinds))
	for i, k := range allKinds {
		order[k] = i
	}
	kinds := make([]MessageKind, 0, len(s.KindCounts))
	for k := range s.KindCounts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return order[kinds[i]] < order[kinds[j]] })
	return kinds
}
