// Package smsbackup reads SMS Backup & Restore XML archives and selects the
// messages that look like mobile-money notifications.
package smsbackup

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"momoledger/momo-ingest/internal/dateutils"
	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/parsererror"
	"momoledger/momo-ingest/internal/xmlutils"
)

// ParserName identifies this reader in parse errors.
const ParserName = "smsbackup"

// cancellation is checked once per this many messages.
const ctxCheckInterval = 256

// Reader streams <sms> records out of a backup archive.
type Reader struct {
	logger   logging.Logger
	location *time.Location
}

// NewReader creates a Reader. readable_date fallbacks are interpreted in loc,
// nil meaning UTC.
func NewReader(logger logging.Logger, loc *time.Location) *Reader {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Reader{logger: logger, location: loc}
}

// Stream decodes src and calls fn for every <sms> element, in document order.
// It stops at the first error returned by fn or when ctx is cancelled.
func (r *Reader) Stream(ctx context.Context, src io.Reader, fn func(models.RawMessage) error) error {
	decoder := xmlutils.NewDecoder(src)
	count := 0
	if err := ctx.Err(); err != nil {
		return err
	}

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &parsererror.ParseError{
				Parser: ParserName,
				Field:  "document",
				Value:  fmt.Sprintf("offset %d", decoder.InputOffset()),
				Err:    err,
			}
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != xmlutils.ElementMessage {
			continue
		}

		msg := r.toRawMessage(start)
		count++
		if err := fn(msg); err != nil {
			return err
		}
		if count%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}

	r.logger.Debug("Finished streaming archive", logging.F(logging.FieldCount, count))
	return nil
}

// ReadAll collects every message of src.
func (r *Reader) ReadAll(ctx context.Context, src io.Reader) ([]models.RawMessage, error) {
	var messages []models.RawMessage
	err := r.Stream(ctx, src, func(m models.RawMessage) error {
		messages = append(messages, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// ReadFile opens path and collects every message in it.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]models.RawMessage, error) {
	file, err := os.Open(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			r.logger.WithError(closeErr).Warn("Failed to close archive",
				logging.F(logging.FieldFile, path))
		}
	}()

	messages, err := r.ReadAll(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive %s: %w", path, err)
	}
	return messages, nil
}

func (r *Reader) toRawMessage(start xml.StartElement) models.RawMessage {
	attrs := make(map[string]string, len(start.Attr))
	for _, a := range start.Attr {
		attrs[a.Name.Local] = a.Value
	}

	return models.RawMessage{
		Body:          attrs[xmlutils.AttrBody],
		OriginAddress: strings.TrimSpace(attrs[xmlutils.AttrAddress]),
		Timestamp:     r.timestamp(attrs),
		Attributes:    attrs,
	}
}

// timestamp prefers the epoch-millisecond date attribute, then an ISO or
// readable_date string. Unparseable values give the zero time.
func (r *Reader) timestamp(attrs map[string]string) time.Time {
	if raw := attrs[xmlutils.AttrDate]; raw != "" {
		if t, err := dateutils.ParseEpochMillis(raw); err == nil {
			return t
		}
		if t, err := dateutils.ParseInLocation(raw, dateutils.BodyFormats, r.location); err == nil {
			return t.UTC()
		}
	}
	if raw := attrs[xmlutils.AttrReadableDate]; raw != "" {
		if t, err := dateutils.ParseInLocation(raw, dateutils.ReadableFormats, r.location); err == nil {
			return t.UTC()
		}
		r.logger.Debug("Unparseable message date", logging.F("readable_date", raw))
	}
	return time.Time{}
}
