package extractor

import "regexp"

// num matches an amount with optional thousands separators and decimals.
const num = `([\d,]+(?:\.\d{1,2})?)`

var (
	reOccurredAt    = regexp.MustCompile(`(?i)\bat (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	reFailedAt      = regexp.MustCompile(`(?i)failed at (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	reAnyDate       = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}(?: \d{2}:\d{2}:\d{2})?)`)
	reBalance       = regexp.MustCompile(`(?i)new balance\s*(?:is\s*)?:?\s*` + num + `\s*RWF`)
	reFee           = regexp.MustCompile(`(?i)fee (?:was|paid)\s*:?\s*` + num + `\s*RWF`)
	reTxID          = regexp.MustCompile(`(?i)\bTxId\s*:\s*(\w+)`)
	reFinancialTxID = regexp.MustCompile(`(?i)Financial Transaction Id\s*:\s*(\w+)`)
	reExternalTxID  = regexp.MustCompile(`(?i)External Transaction Id\s*:\s*(\w+)`)

	reIncomingAmount = regexp.MustCompile(`(?i)you have received ` + num + `\s*RWF`)
	reIncomingSender = regexp.MustCompile(`(?i)\bfrom ([^(]+?)\s*\(([^)]+)\)`)

	rePaymentAmount    = regexp.MustCompile(`(?i)your payment of ` + num + `\s*RWF`)
	reCodeRecipient    = regexp.MustCompile(`(?i)\bto ([^(\d]+?) (\d{5})\b`)
	reRecipientInParen = regexp.MustCompile(`(?i)\bto ([^(]+?)\s*\(([^)]+)\)`)
	rePaidTo           = regexp.MustCompile(`(?i)\bto (.+?) has been completed`)

	reAgentDepositAmount = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:a )?bank deposit of ` + num + `\s*rwf`),
		regexp.MustCompile(`(?i)deposit of ` + num + `\s*rwf`),
	}
	reFirstAmount = regexp.MustCompile(`(?i)` + num + `\s*rwf`)
	reAgentID     = regexp.MustCompile(`::(\d{12})`)

	reTransferAmount    = regexp.MustCompile(`(?i)\*165\*S\*` + num + `\s*RWF`)
	reTransferRecipient = regexp.MustCompile(`(?i)transferred to ([^(]+?)\s*\(([^)]+)\)`)

	rePurchaseAmount = regexp.MustCompile(`(?i)(?:transaction of|your payment of) ` + num + `\s*RWF`)
	reBusinessName   = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bby (.+?) on your momo account`),
		regexp.MustCompile(`(?i)\bto (.+?) with\b`),
	}

	reWithdrawnAmount = regexp.MustCompile(`(?i)withdrawn ` + num + `\s*RWF`)
	reWithdrawalAgent = regexp.MustCompile(`(?i)agent: ([^(]+?)\s*\(([^)]+)\)`)

	reBankTransferAmount = regexp.MustCompile(`(?i)transferred ` + num + `\s*RWF`)

	reFailedAmount  = regexp.MustCompile(`(?i)(?:amount|your payment of|transaction of) ` + num + `\s*RWF`)
	reFailedService = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bfor (.+?) with\b`),
		regexp.MustCompile(`(?i)\bto ([^(]+?)(?:\s*\(| has | with |$)`),
	}

	reReversalAmount = regexp.MustCompile(`(?i)\bwith ` + num + `\s*RWF`)
	reReversalAny    = regexp.MustCompile(`(?i)(?:of|with) ` + num + `\s*RWF`)

	reAltDepositAmount   = regexp.MustCompile(`(?i)deposit RWF ` + num)
	reAltDepositReceiver = regexp.MustCompile(`(?i)receiver: ?(\d+)`)
)
