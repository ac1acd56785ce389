package models

import "time"

// RawMessage is one record read from an SMS backup archive.
type RawMessage struct {
	Body          string
	OriginAddress string
	// Timestamp is the transport time of the message. Zero when the archive
	// carried no usable date.
	Timestamp  time.Time
	Attributes map[string]string
}

// Attr returns the named archive attribute or "".
func (m RawMessage) Attr(name string) string {
	if m.Attributes == nil {
		return ""
	}
	return m.Attributes[name]
}

// MessageKind is the closed set of transaction message shapes.
type MessageKind string

const (
	KindIncomingMoney      MessageKind = "IncomingMoney"
	KindPaymentToCode      MessageKind = "PaymentToCode"
	KindDepositFromAgent   MessageKind = "DepositFromAgent"
	KindDepositOther       MessageKind = "DepositOther"
	KindTransferToMobile   MessageKind = "TransferToMobile"
	KindAirtimePurchase    MessageKind = "AirtimePurchase"
	KindDataBundlePurchase MessageKind = "DataBundlePurchase"
	KindBusinessPayment    MessageKind = "BusinessPayment"
	KindCashWithdrawal     MessageKind = "CashWithdrawal"
	KindBankTransfer       MessageKind = "BankTransfer"
	KindAlternativePayment MessageKind = "AlternativePayment"
	KindFailedTransaction  MessageKind = "FailedTransaction"
	KindReversal           MessageKind = "Reversal"
	KindAlternativeDeposit MessageKind = "AlternativeDeposit"
	KindUnrecognized       MessageKind = "Unrecognized"
)

var allKinds = []MessageKind{
	KindIncomingMoney,
	KindPaymentToCode,
	KindDepositFromAgent,
	KindDepositOther,
	KindTransferToMobile,
	KindAirtimePurchase,
	KindDataBundlePurchase,
	KindBusinessPayment,
	KindCashWithdrawal,
	KindBankTransfer,
	KindAlternativePayment,
	KindFailedTransaction,
	KindReversal,
	KindAlternativeDeposit,
	KindUnrecognized,
}

// AllKinds lists every MessageKind, Unrecognized last.
func AllKinds() []MessageKind {
	out := make([]MessageKind, len(allKinds))
	copy(out, allKinds)
	return out
}

// IsValid reports whether k is a member of the enumeration.
func (k MessageKind) IsValid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Recognized is false only for KindUnrecognized and unknown values.
func (k MessageKind) Recognized() bool {
	return k != KindUnrecognized && k.IsValid()
}

func (k MessageKind) String() string {
	return string(k)
}
