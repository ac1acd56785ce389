// Package store provides functionality for storing and retrieving application data.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultRulesFile is the file name looked up when none is configured.
const DefaultRulesFile = "categories.yaml"

// RuleStore loads categorization keyword rules from a YAML file.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store reading rulesFile. An empty name means the
// built-in rules are used unless DefaultRulesFile is found.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &RuleStore{RulesFile: rulesFile, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".momo-ingest", filename),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".momo-ingest", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadRules returns the configured rule set. A missing file falls back to
// models.DefaultRuleSet; an unreadable or malformed file is an error.
func (s *RuleStore) LoadRules() (models.RuleSet, error) {
	filename := s.RulesFile
	explicit := filename != ""
	if !explicit {
		filename = DefaultRulesFile
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				s.logger.Warn("Rules file not found, using built-in rules",
					logging.F(logging.FieldFile, filename))
			}
			return models.DefaultRuleSet(), nil
		}
		return models.RuleSet{}, fmt.Errorf("error resolving rules file: %w", err)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path from configuration
	if err != nil {
		return models.RuleSet{}, fmt.Errorf("error reading rules file: %w", err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return models.RuleSet{}, fmt.Errorf("error parsing rules file %s: %w", filePath, err)
	}

	s.logger.Debug("Loaded categorization rules",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(rules.Rules)))
	return rules, nil
}

// ParseRules decodes a rule file. The canonical layout is
//
//	categories:
//	  - name: payment
//	    keywords: [payment, bill]
//
// A bare list of rules and a name-to-keywords map are accepted as well.
func ParseRules(data []byte) (models.RuleSet, error) {
	var rs models.RuleSet
	if err := yaml.Unmarshal(data, &rs); err == nil && len(rs.Rules) > 0 {
		return normalize(rs)
	}

	var list []models.CategoryRule
	if err := yaml.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return normalize(models.RuleSet{Rules: list})
	}

	var byName yaml.Node
	if err := yaml.Unmarshal(data, &byName); err != nil {
		return models.RuleSet{}, err
	}
	if len(byName.Content) == 0 || byName.Content[0].Kind != yaml.MappingNode {
		return models.RuleSet{}, fmt.Errorf("no categories found")
	}

	// Walk the mapping node so the file order is kept as the tie-break order.
	mapping := byName.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		var keywords []string
		if err := mapping.Content[i+1].Decode(&keywords); err != nil {
			return models.RuleSet{}, fmt.Errorf("category %q: %w", mapping.Content[i].Value, err)
		}
		rs.Rules = append(rs.Rules, models.CategoryRule{Name: mapping.Content[i].Value, Keywords: keywords})
	}
	return normalize(rs)
}

// WriteRules encodes rs in the canonical layout.
func WriteRules(w io.Writer, rs models.RuleSet) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rs); err != nil {
		return fmt.Errorf("error encoding rules: %w", err)
	}
	return enc.Close()
}

func normalize(rs models.RuleSet) (models.RuleSet, error) {
	out := models.RuleSet{Rules: make([]models.CategoryRule, 0, len(rs.Rules))}
	for _, r := range rs.Rules {
		name := strings.ToLower(strings.TrimSpace(r.Name))
		if name == "" {
			return models.RuleSet{}, fmt.Errorf("category without a name")
		}
		rule := models.CategoryRule{Name: name}
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				rule.Keywords = append(rule.Keywords, k)
			}
		}
		out.Rules = append(out.Rules, rule)
	}
	if len(out.Rules) == 0 {
		return models.RuleSet{}, fmt.Errorf("no categories found")
	}
	return out, nil
}
