package extractor

import (
	"fmt"

	"github.com/shopspring/decimal"

	"momoledger/momo-ingest/internal/parsererror"
	"momoledger/momo-ingest/internal/textutils"
)

// ParseAmount converts a message amount such as "25,000" or "1,234.50" to a
// decimal. Zero and negative values are rejected.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := textutils.StripThousands(raw)
	if cleaned == "" {
		return decimal.Zero, parsererror.ErrMissingAmount
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &parsererror.ParseError{
			Parser: "extractor",
			Field:  "amount",
			Value:  raw,
			Err:    err,
		}
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", parsererror.ErrNonPositiveAmount, raw)
	}
	return d, nil
}

// parseOptionalAmount parses a non-mandatory numeric field such as a fee or a
// balance. ok is false when raw is empty or not a number.
func parseOptionalAmount(raw string) (decimal.Decimal, bool) {
	cleaned := textutils.StripThousands(raw)
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
