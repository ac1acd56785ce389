package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount in a single currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Currency string          `json:"currency" yaml:"currency"`
}

// NewMoney creates a Money value. An empty currency becomes DefaultCurrency.
func NewMoney(amount decimal.Decimal, currency string) Money {
	if strings.TrimSpace(currency) == "" {
		currency = DefaultCurrency
	}
	return Money{
		Amount:   amount,
		Currency: strings.ToUpper(currency),
	}
}

// ZeroMoney returns a zero amount in currency.
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// String renders the amount with two decimals, e.g. "25000.00 RWF".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
