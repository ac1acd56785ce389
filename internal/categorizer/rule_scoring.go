package categorizer

import (
	"context"
	"strings"
	"sync"

	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/textutils"

	"github.com/shopspring/decimal"
)

// Keyword weights. A keyword found in the text scores exact and fuzzy
// together; a whole-word hit adds the boundary weight on top.
const (
	weightExact    = 1.0
	weightBoundary = 0.5
	weightFuzzy    = 0.3
)

var (
	smallAmount  = decimal.NewFromInt(1000)
	mediumAmount = decimal.NewFromInt(100000)
)

// Heuristic vocabularies.
var (
	queryWords    = []string{"balance", "query", "statement", "check"}
	creditWords   = []string{"deposit", "credit", "receive"}
	debitWords    = []string{"withdraw", "debit", "send"}
	largePayWords = []string{"payment", "bill", "merchant", "utility"}
	merchantWords = []string{"payment", "bill", "merchant"}
	bankWords     = []string{"bank", "account"}
)

// RuleScoringStrategy scores keyword rules against the transaction text and
// adds amount and counterparty-phone heuristics. It serves the kinds the
// kind mapping leaves open.
type RuleScoringStrategy struct {
	mu               sync.RWMutex
	rules            models.RuleSet
	merchantPrefixes []string
	bankPrefixes     []string
	logger           logging.Logger
}

// NewRuleScoringStrategy creates a strategy over a private copy of rules.
func NewRuleScoringStrategy(rules models.RuleSet, merchantPrefixes, bankPrefixes []string, logger logging.Logger) *RuleScoringStrategy {
	return &RuleScoringStrategy{
		rules:            rules.Clone(),
		merchantPrefixes: append([]string(nil), merchantPrefixes...),
		bankPrefixes:     append([]string(nil), bankPrefixes...),
		logger:           logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *RuleScoringStrategy) Name() string {
	return StrategyRuleScoring
}

type scoreboard struct {
	order  []string
	scores map[string]float64
}

func (b *scoreboard) add(category string, score float64) {
	if score <= 0 {
		return
	}
	if _, ok := b.scores[category]; !ok {
		b.order = append(b.order, category)
	}
	b.scores[category] += score
}

// best returns the highest score; the earliest category wins a tie.
func (b *scoreboard) best() (string, float64, bool) {
	var name string
	var top float64
	for _, c := range b.order {
		if b.scores[c] > top {
			name, top = c, b.scores[c]
		}
	}
	return name, top, name != ""
}

// Categorize scores every rule and returns the best category.
func (s *RuleScoringStrategy) Categorize(_ context.Context, tx *models.ParsedTransaction) (Result, bool, error) {
	text := scoringText(tx)
	board := &scoreboard{scores: make(map[string]float64)}

	s.mu.RLock()
	for _, rule := range s.rules.Rules {
		board.add(rule.Name, keywordScore(text, rule.Keywords))
	}
	s.mu.RUnlock()

	board.add(amountHeuristic(tx.Amount.Amount, text))
	board.add(s.phoneHeuristic(tx.CounterpartyPhone, text))

	category, score, ok := board.best()
	if !ok {
		return Result{}, false, nil
	}

	res := Result{Category: category, Confidence: min(score/2, 1.0), Strategy: s.Name()}
	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldKind, Value: tx.Kind},
		logging.Field{Key: logging.FieldCategory, Value: res.Category},
		logging.Field{Key: logging.FieldConfidence, Value: res.Confidence},
	).Debug("Transaction categorized by rule scoring")
	return res, true, nil
}

// Rules returns a copy of the current rules.
func (s *RuleScoringStrategy) Rules() models.RuleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules.Clone()
}

// AddRule appends keywords to the named rule, creating it when missing.
func (s *RuleScoringStrategy) AddRule(name string, keywords []string) {
	name, keywords = normalizeRule(name, keywords)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.rules.Find(name); i >= 0 {
		s.rules.Rules[i].Keywords = append(s.rules.Rules[i].Keywords, keywords...)
		return
	}
	s.rules.Rules = append(s.rules.Rules, models.CategoryRule{Name: name, Keywords: keywords})
}

// UpdateRule replaces the keywords of the named rule, creating it when missing.
func (s *RuleScoringStrategy) UpdateRule(name string, keywords []string) {
	name, keywords = normalizeRule(name, keywords)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.rules.Find(name); i >= 0 {
		s.rules.Rules[i].Keywords = keywords
		return
	}
	s.rules.Rules = append(s.rules.Rules, models.CategoryRule{Name: name, Keywords: keywords})
}

func normalizeRule(name string, keywords []string) (string, []string) {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return strings.ToLower(strings.TrimSpace(name)), out
}

func scoringText(tx *models.ParsedTransaction) string {
	parts := []string{string(tx.Kind), string(tx.Status), tx.OriginalText}
	if tx.CounterpartyName != nil {
		parts = append(parts, *tx.CounterpartyName)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func keywordScore(text string, keywords []string) float64 {
	var score float64
	for _, k := range keywords {
		if k == "" || !strings.Contains(text, k) {
			continue
		}
		score += weightExact + weightFuzzy
		if textutils.WordBoundaryMatch(text, k) {
			score += weightBoundary
		}
	}
	return score
}

func amountHeuristic(amount decimal.Decimal, text string) (string, float64) {
	if !amount.IsPositive() {
		return "", 0
	}
	switch {
	case amount.LessThan(smallAmount):
		if textutils.ContainsAnyFold(text, queryWords...) {
			return models.GroupQuery, 0.8
		}
		return models.GroupOther, 0.3
	case amount.LessThan(mediumAmount):
		if textutils.ContainsAnyFold(text, creditWords...) {
			return models.GroupDeposit, 0.6
		}
		if textutils.ContainsAnyFold(text, debitWords...) {
			return models.GroupWithdrawal, 0.6
		}
		return models.GroupTransfer, 0.4
	default:
		if textutils.ContainsAnyFold(text, largePayWords...) {
			return models.GroupPayment, 0.7
		}
		return models.GroupTransfer, 0.5
	}
}

func (s *RuleScoringStrategy) phoneHeuristic(phone *string, text string) (string, float64) {
	if phone == nil || *phone == "" {
		return "", 0
	}
	if hasAnyPrefix(*phone, s.merchantPrefixes) && textutils.ContainsAnyFold(text, merchantWords...) {
		return models.GroupPayment, 0.6
	}
	if hasAnyPrefix(*phone, s.bankPrefixes) && textutils.ContainsAnyFold(text, bankWords...) {
		return models.GroupTransfer, 0.5
	}
	return "", 0
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
