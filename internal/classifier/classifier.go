// Package classifier assigns exactly one MessageKind to a message body using an
// ordered table of substring rules. The first matching rule wins.
package classifier

import (
	"strings"

	"momoledger/momo-ingest/internal/models"
)

// Rule matches when every All marker is present, at least one Any marker is
// present (if any are listed) and no None marker is present. Markers are
// compared case-insensitively.
type Rule struct {
	Name string
	Kind models.MessageKind
	All  []string
	Any  []string
	None []string
}

// matches reports whether the upper-cased body satisfies the rule.
func (r Rule) matches(upper string) bool {
	for _, m := range r.All {
		if !strings.Contains(upper, m) {
			return false
		}
	}
	if len(r.Any) > 0 {
		found := false
		for _, m := range r.Any {
			if strings.Contains(upper, m) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, m := range r.None {
		if strings.Contains(upper, m) {
			return false
		}
	}
	return true
}

// rules is evaluated top to bottom. Markers are stored upper-case.
var rules = []Rule{
	{Name: "incoming-money", Kind: models.KindIncomingMoney, All: []string{"YOU HAVE RECEIVED"}},
	{Name: "airtime", Kind: models.KindAirtimePurchase, All: []string{"*162*TXID:", "AIRTIME"}},
	{Name: "bundle-162", Kind: models.KindDataBundlePurchase, All: []string{"*162*TXID:", "BUNDLES AND PACKS"}},
	{Name: "business-162", Kind: models.KindBusinessPayment, All: []string{"*162*TXID:"}, Any: []string{"ONAFRIQ", "ESICIA", "MTN"}},
	{Name: "payment-to-code", Kind: models.KindPaymentToCode, All: []string{"TXID:", "YOUR PAYMENT OF", "HAS BEEN COMPLETED"}},
	{Name: "agent-deposit", Kind: models.KindDepositFromAgent, All: []string{"*113*R*", "BANK DEPOSIT"}},
	{Name: "deposit-other", Kind: models.KindDepositOther, All: []string{"*113*R*"}},
	{Name: "transfer-to-mobile", Kind: models.KindTransferToMobile, All: []string{"*165*S*", "TRANSFERRED TO"}},
	{Name: "bundle-164", Kind: models.KindDataBundlePurchase, All: []string{"*164*S*", "DATA BUNDLE"}},
	{Name: "business-164", Kind: models.KindBusinessPayment, All: []string{"*164*S*"}},
	{Name: "cash-withdrawal", Kind: models.KindCashWithdrawal, All: []string{"HAVE VIA AGENT:", "WITHDRAWN"}},
	{Name: "bank-transfer", Kind: models.KindBankTransfer, All: []string{"YOU HAVE TRANSFERRED", "IMBANK.BANK"}},
	{Name: "alternative-payment", Kind: models.KindAlternativePayment, All: []string{"YOUR PAYMENT OF", "HAS BEEN COMPLETED"}, None: []string{"TXID:"}},
	{Name: "failed", Kind: models.KindFailedTransaction, All: []string{"*143*"}, Any: []string{"HAS FAILED", "FAILED AT"}},
	{Name: "reversal", Kind: models.KindReversal, Any: []string{"REVERSAL HAS BEEN INITIATED", "HAS BEEN REVERSED"}},
	{Name: "alternative-deposit", Kind: models.KindAlternativeDeposit, All: []string{"DEPOSIT RWF", "RECEIVER:"}},
}

// Rules returns a copy of the ordered rule table. Unrecognized is implied
// after the last rule.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{
			Name: r.Name,
			Kind: r.Kind,
			All:  append([]string(nil), r.All...),
			Any:  append([]string(nil), r.Any...),
			None: append([]string(nil), r.None...),
		}
	}
	return out
}

// Classify returns the kind of the first rule matching body, or
// KindUnrecognized. It never fails.
func Classify(body string) models.MessageKind {
	kind, _ := ClassifyWithRule(body)
	return kind
}

// ClassifyWithRule is Classify that also names the rule that matched, or ""
// for Unrecognized.
func ClassifyWithRule(body string) (models.MessageKind, string) {
	upper := strings.ToUpper(body)
	for _, r := range rules {
		if r.matches(upper) {
			return r.Kind, r.Name
		}
	}
	return models.KindUnrecognized, ""
}
