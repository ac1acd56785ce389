package smsbackup

import (
	"strings"

	"momoledger/momo-ingest/internal/models"
)

// Filter is the allow-list that decides whether a raw message is a
// mobile-money notification worth classifying.
type Filter struct {
	senders  []string
	keywords []string
}

// NewFilter builds a Filter from sender labels and body keywords. Matching is
// case-insensitive; blank entries are ignored.
func NewFilter(senders, keywords []string) *Filter {
	return &Filter{
		senders:  lowerAll(senders),
		keywords: lowerAll(keywords),
	}
}

// Allow reports whether the origin address contains a sender label or the body
// contains a keyword.
func (f *Filter) Allow(msg models.RawMessage) bool {
	addr := strings.ToLower(msg.OriginAddress)
	for _, s := range f.senders {
		if strings.Contains(addr, s) {
			return true
		}
	}

	body := strings.ToLower(msg.Body)
	for _, k := range f.keywords {
		if strings.Contains(body, k) {
			return true
		}
	}
	return false
}

// Apply returns the allowed messages, in order, and how many were rejected.
func (f *Filter) Apply(messages []models.RawMessage) ([]models.RawMessage, int) {
	kept := make([]models.RawMessage, 0, len(messages))
	for _, m := range messages {
		if f.Allow(m) {
			kept = append(kept, m)
		}
	}
	return kept, len(messages) - len(kept)
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
