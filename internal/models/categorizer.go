package models

// CategoryRule lists the keywords that vote for a business category.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// RuleSet is the keyword configuration of the rule-scoring categorizer.
// Rule order breaks score ties.
type RuleSet struct {
	Rules []CategoryRule `yaml:"categories"`
}

// DefaultRuleSet returns the built-in keyword rules.
func DefaultRuleSet() RuleSet {
	return RuleSet{Rules: []CategoryRule{
		{Name: GroupDeposit, Keywords: []string{"deposit", "credit", "topup", "receive"}},
		{Name: GroupWithdrawal, Keywords: []string{"withdraw", "debit", "cashout", "send"}},
		{Name: GroupTransfer, Keywords: []string{"transfer", "send_money", "mobile_money"}},
		{Name: GroupPayment, Keywords: []string{"payment", "bill", "utility", "merchant"}},
		{Name: GroupDataBundle, Keywords: []string{"data bundle", "data_bundle", "bundle", "internet", "data", "mtn data", "yello", "*164*"}},
		{Name: GroupAirtime, Keywords: []string{"airtime", "credit", "topup", "recharge"}},
		{Name: GroupQuery, Keywords: []string{"balance", "statement", "inquiry"}},
		{Name: GroupOther, Keywords: []string{"other", "unknown", "misc"}},
	}}
}

// Clone returns a deep copy so callers can mutate rules without sharing.
func (rs RuleSet) Clone() RuleSet {
	out := RuleSet{Rules: make([]CategoryRule, len(rs.Rules))}
	for i, r := range rs.Rules {
		out.Rules[i] = CategoryRule{Name: r.Name, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Find returns the index of the rule named name, or -1.
func (rs RuleSet) Find(name string) int {
	for i, r := range rs.Rules {
		if r.Name == name {
			return i
		}
	}
	return -1
}
