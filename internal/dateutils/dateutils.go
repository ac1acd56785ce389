// Package dateutils provides the date and time parsing used when reading SMS
// backups and message bodies.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutMinutes   = "2006-01-02 15:04"
	DateLayoutEuropean  = "02/01/2006 15:04:05"
	DateLayoutReadable  = "Jan 2, 2006 3:04:05 PM"
	DateLayoutReadable2 = "2 Jan 2006 15:04:05"
)

// BodyFormats are tried, in order, on timestamps embedded in message bodies.
var BodyFormats = []string{
	DateLayoutFull,
	DateLayoutMinutes,
	time.RFC3339,
	DateLayoutEuropean,
	DateLayoutISO,
}

// ReadableFormats are tried on the readable_date attribute written by SMS
// backup tools.
var ReadableFormats = []string{
	DateLayoutReadable,
	DateLayoutReadable2,
	DateLayoutFull,
	time.RFC3339,
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims a date string and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseInLocation attempts each layout in turn and interprets the value in loc.
// A nil loc means UTC.
func ParseInLocation(dateStr string, layouts []string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("unable to parse empty date")
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, dateStr, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseBodyTimestamp parses a timestamp found inside a message body.
func ParseBodyTimestamp(dateStr string, loc *time.Location) (time.Time, error) {
	return ParseInLocation(dateStr, BodyFormats, loc)
}

// FromEpochMillis converts a millisecond Unix timestamp to a UTC time.
func FromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ParseEpochMillis parses a decimal millisecond Unix timestamp.
func ParseEpochMillis(value string) (time.Time, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch milliseconds %q: %w", value, err)
	}
	if ms <= 0 {
		return time.Time{}, fmt.Errorf("invalid epoch milliseconds %q: must be positive", value)
	}
	return FromEpochMillis(ms), nil
}

// LoadLocation resolves a timezone name; an empty name means UTC.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// FormatDateTime formats t as DateLayoutFull, or "" for the zero time.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayoutFull)
}
