// Package extractor turns a classified mobile-money message into a
// ParsedTransaction. Each MessageKind has its own routine; a missing amount is
// the only failure, every other field degrades to nil.
package extractor

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"momoledger/momo-ingest/internal/dateutils"
	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/parsererror"
	"momoledger/momo-ingest/internal/textutils"
)

// ErrUnsupportedKind is returned for KindUnrecognized and unknown kinds.
var ErrUnsupportedKind = errors.New("no extraction routine for message kind")

// DefaultSnippetLength bounds the message text carried in extraction errors.
const DefaultSnippetLength = 100

// Options configures an Extractor. Zero values select the defaults.
type Options struct {
	Currency      string
	CountryCode   string
	Location      *time.Location
	Confidence    *ConfidenceTable
	SnippetLength int
}

// Extractor holds the per-kind extraction routines.
type Extractor struct {
	logger        logging.Logger
	currency      string
	countryCode   string
	location      *time.Location
	confidence    ConfidenceTable
	snippetLength int
	routines      map[models.MessageKind]routine
}

type routine func(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error)

// New creates an Extractor.
func New(logger logging.Logger, opts Options) *Extractor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	e := &Extractor{
		logger:        logger,
		currency:      opts.Currency,
		countryCode:   opts.CountryCode,
		location:      opts.Location,
		confidence:    ConfidenceV1,
		snippetLength: opts.SnippetLength,
	}
	if e.currency == "" {
		e.currency = models.DefaultCurrency
	}
	if e.countryCode == "" {
		e.countryCode = "250"
	}
	if e.location == nil {
		e.location = time.UTC
	}
	if opts.Confidence != nil {
		e.confidence = *opts.Confidence
	}
	if e.snippetLength <= 0 {
		e.snippetLength = DefaultSnippetLength
	}

	e.routines = map[models.MessageKind]routine{
		models.KindIncomingMoney:      extractIncoming,
		models.KindPaymentToCode:      extractPaymentToCode,
		models.KindDepositFromAgent:   extractAgentDeposit,
		models.KindDepositOther:       extractDepositOther,
		models.KindTransferToMobile:   extractTransferToMobile,
		models.KindAirtimePurchase:    extractAirtime,
		models.KindDataBundlePurchase: extractDataBundle,
		models.KindBusinessPayment:    extractBusinessPayment,
		models.KindCashWithdrawal:     extractCashWithdrawal,
		models.KindBankTransfer:       extractBankTransfer,
		models.KindAlternativePayment: extractAlternativePayment,
		models.KindFailedTransaction:  extractFailed,
		models.KindReversal:           extractReversal,
		models.KindAlternativeDeposit: extractAlternativeDeposit,
	}
	return e
}

// ConfidenceVersion reports the version of the confidence table in use.
func (e *Extractor) ConfidenceVersion() string {
	return e.confidence.Version
}

// Extract runs the routine for kind over body. hint is the transport
// timestamp, used when the body carries no occurrence time. Failures are
// *parsererror.ExtractionError.
func (e *Extractor) Extract(body string, kind models.MessageKind, hint time.Time) (*models.ParsedTransaction, error) {
	fn, ok := e.routines[kind]
	if !ok {
		return nil, e.failure(kind, "kind", body, ErrUnsupportedKind)
	}

	tx, err := fn(e, body, hint)
	if err != nil {
		return nil, err
	}

	tx.Status = deriveStatus(kind, body)
	e.logger.Debug("Extracted transaction",
		logging.F(logging.FieldKind, kind),
		logging.F(logging.FieldCategory, tx.Category),
		logging.F(logging.FieldConfidence, tx.Confidence))
	return tx, nil
}

// newTx builds the common part of every routine's result: the mandatory amount
// plus the optional fields that share one pattern across all message shapes.
func (e *Extractor) newTx(kind models.MessageKind, r Routine, category string, dir models.Direction,
	body, rawAmount string, hint time.Time) (*models.ParsedTransaction, error) {

	if strings.TrimSpace(rawAmount) == "" {
		return nil, e.failure(kind, "amount", body, parsererror.ErrMissingAmount)
	}
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return nil, e.failure(kind, "amount", body, err)
	}

	tx := &models.ParsedTransaction{
		Amount:                 models.NewMoney(amount, e.currency),
		Kind:                   kind,
		Direction:              dir,
		Status:                 models.StatusCompleted,
		Category:               category,
		Confidence:             e.confidence.Lookup(r),
		OriginalText:           body,
		TransactionID:          models.StringPtr(textutils.FirstGroup(body, reTxID)),
		FinancialTransactionID: models.StringPtr(textutils.FirstGroup(body, reFinancialTxID)),
		ExternalTransactionID:  models.StringPtr(textutils.FirstGroup(body, reExternalTxID)),
	}

	if fee, ok := parseOptionalAmount(textutils.FirstGroup(body, reFee)); ok {
		tx.Fee = fee
	}
	if bal, ok := parseOptionalAmount(textutils.FirstGroup(body, reBalance)); ok {
		tx.ResultingBalance = &bal
	}
	tx.OccurredAt = e.occurredAt(body, hint, reOccurredAt)

	return tx, nil
}

// occurredAt parses the first body timestamp found by patterns, falling back
// to hint. The result is in UTC; nil when neither is available.
func (e *Extractor) occurredAt(body string, hint time.Time, patterns ...*regexp.Regexp) *time.Time {
	if raw := textutils.FirstGroup(body, patterns...); raw != "" {
		if t, err := dateutils.ParseBodyTimestamp(raw, e.location); err == nil {
			utc := t.UTC()
			return &utc
		}
		e.logger.Debug("Unparseable body timestamp", logging.F("raw", raw))
	}
	if hint.IsZero() {
		return nil
	}
	utc := hint.UTC()
	return &utc
}

// setCounterparty fills name and phone. A parenthesized value without digits
// (such as a bank handle) is stored as the agent/business id instead.
func (e *Extractor) setCounterparty(tx *models.ParsedTransaction, name, phone string) {
	if name != "" {
		tx.CounterpartyName = models.StringPtr(textutils.NormalizeSpace(name))
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return
	}
	if looksLikePhone(phone) {
		tx.CounterpartyPhone = models.StringPtr(NormalizePhone(phone, e.countryCode))
		return
	}
	if tx.AgentOrBusinessID == nil {
		tx.AgentOrBusinessID = models.StringPtr(phone)
	}
}

func (e *Extractor) failure(kind models.MessageKind, field, body string, err error) *parsererror.ExtractionError {
	return &parsererror.ExtractionError{
		Kind:    kind.String(),
		Field:   field,
		Snippet: parsererror.Truncate(body, e.snippetLength),
		Err:     err,
	}
}

func deriveStatus(kind models.MessageKind, body string) models.TransactionStatus {
	switch {
	case kind == models.KindFailedTransaction:
		return models.StatusFailed
	case kind == models.KindReversal:
		return models.StatusReversed
	case textutils.ContainsFold(body, "pending"):
		return models.StatusPending
	}
	return models.StatusCompleted
}
