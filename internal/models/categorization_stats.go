package models

import (
	"momoledger/momo-ingest/internal/logging"
)

// CategorizationStats counts categorizer outcomes for one run.
type CategorizationStats struct {
	Total         int
	ByKind        int // resolved from the message kind
	ByRules       int // resolved by rule scoring
	Uncategorized int
	Failed        int
}

// LogSummary writes the counters to logger.
func (cs CategorizationStats) LogSummary(logger logging.Logger, file string) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: logging.FieldFile, Value: file},
		logging.Field{Key: "total_transactions", Value: cs.Total},
		logging.Field{Key: "by_kind", Value: cs.ByKind},
		logging.Field{Key: "by_rules", Value: cs.ByRules},
		logging.Field{Key: "uncategorized", Value: cs.Uncategorized},
		logging.Field{Key: "failed", Value: cs.Failed},
		logging.Field{Key: "success_rate", Value: cs.GetSuccessRate()},
	)
}

// GetSuccessRate is the share of transactions with a known category, in percent.
func (cs CategorizationStats) GetSuccessRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.ByKind+cs.ByRules) / float64(cs.Total) * 100.0
}
