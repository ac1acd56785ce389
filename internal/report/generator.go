// Package report renders run summaries, dry-run previews and the processed
// file status for the command line.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"momoledger/momo-ingest/internal/dateutils"
	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/pipeline"

	"github.com/gocarina/gocsv"
)

// Supported status formats.
const (
	FormatText = "text"
	FormatCSV  = "csv"
)

// FileStatusRow is one processed file in the CSV status report.
type FileStatusRow struct {
	FileName       string `csv:"file_name"`
	Path           string `csv:"path"`
	SizeBytes      int64  `csv:"size_bytes"`
	ContentHash    string `csv:"content_hash"`
	RecordsWritten int    `csv:"records_written"`
	Status         string `csv:"status"`
	ProcessedAt    string `csv:"processed_at"`
	Error          string `csv:"error"`
}

// Generator writes reports with a configurable CSV delimiter.
type Generator struct {
	logger    logging.Logger
	delimiter rune
}

// NewGenerator creates a generator. A zero delimiter means ','.
func NewGenerator(logger logging.Logger, delimiter rune) *Generator {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Generator{logger: logger, delimiter: delimiter}
}

// StatusRows converts tracker records into CSV rows.
func StatusRows(files []models.FileProcessingRecord) []FileStatusRow {
	rows := make([]FileStatusRow, 0, len(files))
	for _, f := range files {
		rows = append(rows, FileStatusRow{
			FileName:       f.FileName,
			Path:           f.AbsolutePath,
			SizeBytes:      f.SizeBytes,
			ContentHash:    f.ContentHash,
			RecordsWritten: f.RecordsWritten,
			Status:         string(f.Status),
			ProcessedAt:    dateutils.FormatDateTime(f.ProcessedAt),
			Error:          f.ErrorMessage,
		})
	}
	return rows
}

// GenerateStatus writes the processed files and their totals in format.
func (g *Generator) GenerateStatus(w io.Writer, files []models.FileProcessingRecord, stats models.FileStats, format string) error {
	switch format {
	case FormatCSV:
		return g.writeCSV(w, StatusRows(files))
	case FormatText, "":
		return g.writeStatusText(w, files, stats)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) writeCSV(w io.Writer, rows []FileStatusRow) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = g.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal status report to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func (g *Generator) writeStatusText(w io.Writer, files []models.FileProcessingRecord, stats models.FileStats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSTATUS\tRECORDS\tPROCESSED AT\tPATH")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			f.FileName, f.Status, f.RecordsWritten, dateutils.FormatDateTime(f.ProcessedAt), f.AbsolutePath)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nFiles: %d  Successful: %d  Failed: %d  Records: %d\n",
		stats.TotalFiles, stats.Successful, stats.Failed, stats.TotalRecords)
	return err
}

// WriteSummaries prints one block per run summary.
func (g *Generator) WriteSummaries(w io.Writer, summaries []*models.RunSummary) error {
	for i, s := range summaries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := writeSummary(w, s); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(w io.Writer, s *models.RunSummary) error {
	fmt.Fprintf(w, "%s: %s (run %s, %s)\n", s.File, strings.ToUpper(string(s.Status)), s.RunID, s.Duration.Round(time.Millisecond))
	if s.Status == models.RunStatusSkipped {
		return nil
	}
	if s.ErrorMessage != "" {
		fmt.Fprintf(w, "  error: %s\n", s.ErrorMessage)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "  messages\t%d\n", s.TotalMessages)
	fmt.Fprintf(tw, "  candidates\t%d\n", s.Filtered)
	fmt.Fprintf(tw, "  processed\t%d\n", s.TotalProcessed)
	fmt.Fprintf(tw, "  written\t%d\n", s.TotalWritten)
	fmt.Fprintf(tw, "  duplicates\t%d\n", s.Duplicates)
	fmt.Fprintf(tw, "  failed\t%d\n", s.Failed)
	fmt.Fprintf(tw, "  unrecognized\t%d\n", s.Unrecognized)
	if s.Excluded > 0 {
		fmt.Fprintf(tw, "  excluded\t%d\n", s.Excluded)
	}
	for _, kind := range s.SortedKinds() {
		fmt.Fprintf(tw, "  kind %s\t%d\n", kind, s.KindCounts[kind])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, e := range s.Errors {
		fmt.Fprintf(w, "  ! %s\n", e)
	}
	return nil
}

// WritePreview prints a dry-run result with its transaction sample.
func (g *Generator) WritePreview(w io.Writer, p *pipeline.Preview) error {
	fmt.Fprintf(w, "Archive %s: %d messages declared, %d present\n", p.File, p.Archive.DeclaredCount, p.Archive.Messages)
	if err := writeSummary(w, p.Summary); err != nil {
		return err
	}
	fmt.Fprintf(w, "Categorized: %d by kind, %d by rules, %d unknown (%.1f%%)\n",
		p.Categorization.ByKind, p.Categorization.ByRules, p.Categorization.Uncategorized,
		p.Categorization.GetSuccessRate())

	if len(p.Sample) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tAMOUNT\tDIRECTION\tCATEGORY\tGROUP\tCOUNTERPARTY\tOCCURRED AT")
	for _, tx := range p.Sample {
		occurred := ""
		if tx.OccurredAt != nil {
			occurred = dateutils.FormatDateTime(*tx.OccurredAt)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s (%.2f)\t%s\t%s\n",
			tx.Kind, tx.Amount.String(), tx.Direction, tx.Category, tx.Group, tx.CategoryConfidence,
			counterparty(tx), occurred)
	}
	return tw.Flush()
}

func counterparty(tx models.ParsedTransaction) string {
	var parts []string
	if tx.CounterpartyName != nil {
		parts = append(parts, *tx.CounterpartyName)
	}
	if tx.CounterpartyPhone != nil {
		parts = append(parts, *tx.CounterpartyPhone)
	}
	if len(parts) == 0 && tx.AgentOrBusinessID != nil {
		parts = append(parts, *tx.AgentOrBusinessID)
	}
	return strings.Join(parts, " ")
}
