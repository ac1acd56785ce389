// Package textutils provides text extraction and manipulation utilities for
// free-form message bodies.
package textutils

import (
	"regexp"
	"strings"
)

var spaces = regexp.MustCompile(`\s+`)

// FirstSubmatch returns the submatches of the first pattern that matches text,
// or nil when none does.
func FirstSubmatch(text string, patterns ...*regexp.Regexp) []string {
	for _, re := range patterns {
		if matches := re.FindStringSubmatch(text); matches != nil {
			return matches
		}
	}
	return nil
}

// FirstGroup returns the first capture group of the first matching pattern,
// trimmed. It returns "" when nothing matches.
func FirstGroup(text string, patterns ...*regexp.Regexp) string {
	matches := FirstSubmatch(text, patterns...)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(matches[1])
}

// Group returns capture group n of the match, trimmed, or "" if absent.
func Group(matches []string, n int) string {
	if n < 0 || n >= len(matches) {
		return ""
	}
	return strings.TrimSpace(matches[n])
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ContainsAnyFold reports whether any of the needles occurs in s, ignoring case.
func ContainsAnyFold(s string, needles ...string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if n != "" && strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// NormalizeSpace trims s and collapses runs of whitespace to one space.
func NormalizeSpace(s string) string {
	return spaces.ReplaceAllString(strings.TrimSpace(s), " ")
}

// StripThousands removes grouping separators from a numeric string.
func StripThousands(s string) string {
	return strings.NewReplacer(",", "", " ", "", " ", "").Replace(strings.TrimSpace(s))
}

// WordBoundaryMatch reports whether word occurs in s as a whole word, ignoring case.
func WordBoundaryMatch(s, word string) bool {
	if strings.TrimSpace(word) == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}
