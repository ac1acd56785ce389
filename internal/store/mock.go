package store

import (
	"momoledger/momo-ingest/internal/models"
)

// MockRuleStore is a mock implementation of RuleStore for testing.
type MockRuleStore struct {
	Rules          models.RuleSet
	LoadRulesError error
	Loads          int
}

// LoadRules returns a copy of the mock rules.
func (m *MockRuleStore) LoadRules() (models.RuleSet, error) {
	m.Loads++
	if m.LoadRulesError != nil {
		return models.RuleSet{}, m.LoadRulesError
	}
	return m.Rules.Clone(), nil
}
