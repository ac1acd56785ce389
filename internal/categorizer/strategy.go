package categorizer

import (
	"context"

	"momoledger/momo-ingest/internal/models"
)

// Strategy names reported in results and logs.
const (
	StrategyKindMapping = "KindMapping"
	StrategyRuleScoring = "RuleScoring"
	StrategyNone        = "None"
)

// CategorizationStrategy defines a method for categorizing transactions.
// Each strategy implements a specific approach to categorization (kind mapping, keyword scoring).
type CategorizationStrategy interface {
	// Categorize attempts to categorize a transaction using this strategy.
	// Returns the result, a boolean indicating if categorization was successful,
	// and any error encountered during the process.
	Categorize(ctx context.Context, tx *models.ParsedTransaction) (Result, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

// RuleSource supplies the keyword rules. store.RuleStore satisfies it.
type RuleSource interface {
	LoadRules() (models.RuleSet, error)
}
