package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validTransaction() ParsedTransaction {
	return ParsedTransaction{
		Amount:     NewMoney(decimal.NewFromInt(5000), "RWF"),
		Kind:       KindIncomingMoney,
		Direction:  DirectionCredit,
		Status:     StatusCompleted,
		Confidence: 0.95,
	}
}

func TestParsedTransaction_DedupKey(t *testing.T) {
	occurred := time.Date(2024, 5, 10, 16, 30, 51, 0, time.UTC)

	t.Run("external id wins", func(t *testing.T) {
		tx := validTransaction()
		tx.ExternalTransactionID = StringPtr("EXT-42")
		tx.TransactionID = StringPtr("111")
		assert.Equal(t, "ext:EXT-42", tx.DedupKey())
	})

	t.Run("natural key", func(t *testing.T) {
		tx := validTransaction()
		tx.CounterpartyPhone = StringPtr("+250788110381")
		tx.OccurredAt = &occurred
		tx.FinancialTransactionID = StringPtr("76662021700")
		assert.Equal(t, "nk:+250788110381|5000.00|2024-05-10T16:30:51Z|76662021700", tx.DedupKey())
	})

	t.Run("natural key with missing parts", func(t *testing.T) {
		tx := validTransaction()
		assert.Equal(t, "nk:|5000.00||", tx.DedupKey())
	})

	t.Run("same instant in different zones", func(t *testing.T) {
		a := validTransaction()
		b := validTransaction()
		local := occurred.In(time.FixedZone("CAT", 2*3600))
		a.OccurredAt = &occurred
		b.OccurredAt = &local
		assert.Equal(t, a.DedupKey(), b.DedupKey())
	})
}

func TestParsedTransaction_Reference(t *testing.T) {
	tx := validTransaction()
	assert.Equal(t, "", tx.Reference())

	tx.FinancialTransactionID = StringPtr("222")
	assert.Equal(t, "222", tx.Reference())

	tx.TransactionID = StringPtr("111")
	assert.Equal(t, "111", tx.Reference())
}

func TestParsedTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ParsedTransaction)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ParsedTransaction) {}},
		{name: "zero amount", mutate: func(tx *ParsedTransaction) { tx.Amount = ZeroMoney("RWF") }, wantErr: true},
		{name: "negative fee", mutate: func(tx *ParsedTransaction) { tx.Fee = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "confidence above one", mutate: func(tx *ParsedTransaction) { tx.Confidence = 1.2 }, wantErr: true},
		{name: "unrecognized kind", mutate: func(tx *ParsedTransaction) { tx.Kind = KindUnrecognized }, wantErr: true},
		{name: "missing direction", mutate: func(tx *ParsedTransaction) { tx.Direction = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr("   "))
	assert.Equal(t, "abc", *StringPtr(" abc "))
}

func TestMessageKind(t *testing.T) {
	assert.Len(t, AllKinds(), 15)
	assert.True(t, KindReversal.IsValid())
	assert.True(t, KindReversal.Recognized())
	assert.False(t, KindUnrecognized.Recognized())
	assert.False(t, MessageKind("Bogus").IsValid())
}
