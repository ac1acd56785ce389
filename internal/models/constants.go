package models

// DefaultCurrency is used when a message does not state a currency.
const DefaultCurrency = "RWF"

// Directions
const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Transaction statuses derived from message text
const (
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusPending   TransactionStatus = "pending"
	StatusReversed  TransactionStatus = "reversed"
)

// Fine-grained categories assigned by the extractors.
const (
	CategoryTransferIncoming    = "transfer_incoming"
	CategoryTransferOutgoing    = "transfer_outgoing"
	CategoryPaymentPersonal     = "payment_personal"
	CategoryPaymentBusiness     = "payment_business"
	CategoryDepositAgent        = "deposit_agent"
	CategoryDepositCash         = "deposit_cash"
	CategoryDepositBankTransfer = "deposit_bank_transfer"
	CategoryDepositOther        = "deposit_other"
	CategoryDepositAlternative  = "deposit_alternative"
	CategoryAirtime             = "airtime"
	CategoryDataBundle          = "data_bundle"
	CategoryCashWithdrawal      = "cash_withdrawal"
	CategoryFailedTransaction   = "failed_transaction"
	CategoryReversal            = "reversal"
)

// Business categories assigned by the categorizer.
const (
	GroupTransfer   = "transfer"
	GroupDeposit    = "deposit"
	GroupPayment    = "payment"
	GroupAirtime    = "airtime"
	GroupDataBundle = "data_bundle"
	GroupWithdrawal = "withdrawal"
	GroupQuery      = "query"
	GroupOther      = "other"
	GroupUnknown    = "unknown"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
)
