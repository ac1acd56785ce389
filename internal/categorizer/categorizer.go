// Package categorizer assigns a business category to extracted transactions:
// 1. Direct mapping from the message kind when the kind is unambiguous
// 2. Keyword rule scoring with amount and phone heuristics for the rest
package categorizer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/parsererror"
)

// Options tunes the heuristics of the rule-scoring strategy.
type Options struct {
	MerchantPrefixes []string
	BankPrefixes     []string
}

// Categorizer runs its strategies in order and keeps per-run counters.
// It is safe for concurrent use.
type Categorizer struct {
	kindMapping *KindMappingStrategy
	ruleScoring *RuleScoringStrategy
	strategies  []CategorizationStrategy
	logger      logging.Logger

	statsMu sync.Mutex
	stats   models.CategorizationStats
}

// NewCategorizer creates a categorizer over rules.
func NewCategorizer(rules models.RuleSet, opts Options, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	c := &Categorizer{
		kindMapping: NewKindMappingStrategy(logger),
		ruleScoring: NewRuleScoringStrategy(rules, opts.MerchantPrefixes, opts.BankPrefixes, logger),
		logger:      logger,
	}
	c.strategies = []CategorizationStrategy{c.kindMapping, c.ruleScoring}
	return c
}

// NewCategorizerFromSource loads the rules from source first.
func NewCategorizerFromSource(source RuleSource, opts Options, logger logging.Logger) (*Categorizer, error) {
	rules, err := source.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load categorization rules: %w", err)
	}
	return NewCategorizer(rules, opts, logger), nil
}

// Categorize picks the business category of tx. A transaction no strategy
// resolves is "unknown" with confidence 0. Strategy errors are logged and
// the next strategy is tried; only cancellation is returned.
func (c *Categorizer) Categorize(ctx context.Context, tx *models.ParsedTransaction) (Result, error) {
	if tx == nil {
		return Result{}, fmt.Errorf("nil transaction")
	}

	var attempts StrategyResults
	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			return Result{}, &parsererror.CategorizationError{
				Transaction: string(tx.Kind),
				Strategy:    strategy.Name(),
				Err:         err,
			}
		}

		res, found, err := strategy.Categorize(ctx, tx)
		attempts.Add(strategy.Name(), res, found, err)
		if err != nil {
			c.logger.WithError(err).WithFields(
				logging.Field{Key: logging.FieldStrategy, Value: strategy.Name()},
				logging.Field{Key: logging.FieldKind, Value: tx.Kind},
			).Warn("Categorization strategy failed")
			continue
		}
		if found {
			break
		}
	}

	if best, ok := attempts.GetBestResult(); ok {
		return best, nil
	}

	if errs := attempts.GetErrors(); len(errs) > 0 && len(errs) == len(attempts.Results) {
		c.logger.WithError(errors.Join(errs...)).WithFields(
			logging.Field{Key: logging.FieldKind, Value: tx.Kind},
		).Warn("All categorization strategies failed")
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldKind, Value: tx.Kind},
		logging.Field{Key: "attempts", Value: attempts.Summary()},
	).Debug("Transaction left uncategorized")
	return Result{Category: models.GroupUnknown, Confidence: 0, Strategy: StrategyNone}, nil
}

// Apply categorizes tx and stores the outcome on it: Group and
// CategoryConfidence always, Category only when the extractor left it empty.
func (c *Categorizer) Apply(ctx context.Context, tx *models.ParsedTransaction) (Result, error) {
	res, err := c.Categorize(ctx, tx)
	c.record(res, err)
	if err != nil {
		return res, err
	}

	tx.Group = res.Category
	tx.CategoryConfidence = res.Confidence
	if tx.Category == "" {
		tx.Category = res.Category
	}
	return res, nil
}

func (c *Categorizer) record(res Result, err error) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()

	c.stats.Total++
	switch {
	case err != nil:
		c.stats.Failed++
	case res.Strategy == StrategyKindMapping:
		c.stats.ByKind++
	case res.Strategy == StrategyRuleScoring:
		c.stats.ByRules++
	default:
		c.stats.Uncategorized++
	}
}

// Stats returns the counters accumulated by Apply since the last reset.
func (c *Categorizer) Stats() models.CategorizationStats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// ResetStats clears the counters.
func (c *Categorizer) ResetStats() {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	c.stats = models.CategorizationStats{}
}

// Rules returns a copy of the scoring rules in use.
func (c *Categorizer) Rules() models.RuleSet {
	return c.ruleScoring.Rules()
}

// AddRule extends the keywords of a category, creating it when missing.
// The change applies to this instance only.
func (c *Categorizer) AddRule(category string, keywords []string) {
	c.ruleScoring.AddRule(category, keywords)
	c.logger.WithFields(
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: "keywords", Value: keywords},
	).Info("Added custom categorization rule")
}

// UpdateRule replaces the keywords of a category.
func (c *Categorizer) UpdateRule(category string, keywords []string) {
	c.ruleScoring.UpdateRule(category, keywords)
	c.logger.WithFields(
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: "keywords", Value: keywords},
	).Info("Updated categorization rule")
}
