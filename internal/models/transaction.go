package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money entered or left the account.
type Direction string

// TransactionStatus is the outcome stated by the message.
type TransactionStatus string

// ParsedTransaction is the structured form of one mobile-money message.
// Optional fields are nil when the message did not carry them.
type ParsedTransaction struct {
	Amount    Money
	Kind      MessageKind
	Direction Direction
	Status    TransactionStatus

	// Category is the fine-grained category set by the extractor.
	Category string
	// Group is the business category set by the categorizer.
	Group              string
	CategoryConfidence float64

	CounterpartyName  *string
	CounterpartyPhone *string
	AgentOrBusinessID *string

	Fee              decimal.Decimal
	ResultingBalance *decimal.Decimal

	TransactionID          *string
	FinancialTransactionID *string
	ExternalTransactionID  *string

	OccurredAt *time.Time

	Confidence   float64
	OriginalText string
}

// Reference is the provider identifier used in the natural key: the
// transaction id, else the financial transaction id, else "".
func (t *ParsedTransaction) Reference() string {
	if v := deref(t.TransactionID); v != "" {
		return v
	}
	return deref(t.FinancialTransactionID)
}

// DedupKey identifies the transaction for idempotent storage. The external
// transaction id wins when present; otherwise the natural key
// (counterparty phone, amount, occurrence time, reference) is used.
func (t *ParsedTransaction) DedupKey() string {
	if ext := strings.TrimSpace(deref(t.ExternalTransactionID)); ext != "" {
		return "ext:" + ext
	}
	occurred := ""
	if t.OccurredAt != nil {
		occurred = t.OccurredAt.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("nk:%s|%s|%s|%s",
		deref(t.CounterpartyPhone),
		t.Amount.Amount.StringFixed(2),
		occurred,
		t.Reference())
}

// Validate checks the invariants a transaction must hold before storage.
func (t *ParsedTransaction) Validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", t.Amount.Amount.String())
	}
	if t.Fee.IsNegative() {
		return fmt.Errorf("fee must not be negative, got %s", t.Fee.String())
	}
	if t.Confidence < 0 || t.Confidence > 1 {
		return fmt.Errorf("confidence %.2f outside [0,1]", t.Confidence)
	}
	if !t.Kind.Recognized() {
		return fmt.Errorf("unsupported message kind %q", t.Kind)
	}
	if t.Direction != DirectionCredit && t.Direction != DirectionDebit {
		return fmt.Errorf("invalid direction %q", t.Direction)
	}
	return nil
}

// StringPtr returns nil for blank strings, otherwise a pointer to the trimmed value.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
