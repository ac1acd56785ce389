package categorizer

import (
	"fmt"
	"strings"
)

// Result is the business category chosen for one transaction.
type Result struct {
	Category   string
	Confidence float64 // 0.0 to 1.0
	Strategy   string
}

// StrategyResult represents the result of a categorization strategy attempt
type StrategyResult struct {
	Strategy string
	Result   Result
	Found    bool
	Error    error
}

// StrategyResults aggregates results from multiple strategies
type StrategyResults struct {
	Results []StrategyResult
}

// Add records one attempt.
func (sr *StrategyResults) Add(strategy string, res Result, found bool, err error) {
	sr.Results = append(sr.Results, StrategyResult{Strategy: strategy, Result: res, Found: found, Error: err})
}

// GetBestResult returns the first successful result, in strategy order.
func (sr StrategyResults) GetBestResult() (Result, bool) {
	for i := range sr.Results {
		if sr.Results[i].Found && sr.Results[i].Error == nil {
			return sr.Results[i].Result, true
		}
	}
	return Result{}, false
}

// GetErrors returns all errors encountered during strategy execution
func (sr StrategyResults) GetErrors() []error {
	var errs []error
	for _, result := range sr.Results {
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("%s strategy: %w", result.Strategy, result.Error))
		}
	}
	return errs
}

// Summary returns a human-readable summary of all strategy attempts
func (sr StrategyResults) Summary() string {
	var parts []string
	for _, result := range sr.Results {
		status := "failed"
		if result.Found {
			status = "success"
		} else if result.Error == nil {
			status = "no_match"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", result.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
