package extractor

import (
	"time"

	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/textutils"
)

func extractIncoming(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	tx, err := e.newTx(models.KindIncomingMoney, RoutineIncoming, models.CategoryTransferIncoming,
		models.DirectionCredit, body, textutils.FirstGroup(body, reIncomingAmount), hint)
	if err != nil {
		return nil, err
	}
	m := textutils.FirstSubmatch(body, reIncomingSender)
	e.setCounterparty(tx, textutils.Group(m, 1), textutils.Group(m, 2))
	// Incoming notifications carry no TxId; their financial id is the reference.
	if tx.TransactionID == nil && tx.FinancialTransactionID != nil {
		id := *tx.FinancialTransactionID
		tx.TransactionID = &id
	}
	return tx, nil
}

func extractPaymentToCode(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	tx, err := e.newTx(models.KindPaymentToCode, RoutinePaymentToCode, models.CategoryPaymentPersonal,
		models.DirectionDebit, body, textutils.FirstGroup(body, rePaymentAmount), hint)
	if err != nil {
		return nil, err
	}
	if m := textutils.FirstSubmatch(body, reCodeRecipient); m != nil {
		e.setCounterparty(tx, textutils.Group(m, 1), "")
		tx.AgentOrBusinessID = models.StringPtr(textutils.Group(m, 2))
	}
	return tx, nil
}

func extractAgentDeposit(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	return e.deposit(models.KindDepositFromAgent, RoutineAgentDeposit, models.CategoryDepositAgent,
		body, textutils.FirstGroup(body, reAgentDepositAmount...), hint)
}

// extractDepositOther dispatches *113*R* messages on their wording.
func extractDepositOther(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	kind := models.KindDepositOther
	switch {
	case textutils.ContainsFold(body, "bank deposit"):
		return e.deposit(kind, RoutineAgentDeposit, models.CategoryDepositAgent,
			body, textutils.FirstGroup(body, reAgentDepositAmount...), hint)
	case textutils.ContainsFold(body, "cash deposit"):
		return e.deposit(kind, RoutineCashDeposit, models.CategoryDepositCash,
			body, textutils.FirstGroup(body, reFirstAmount), hint)
	case textutils.ContainsFold(body, "transfer"):
		return e.deposit(kind, RoutineBankTransferDeposit, models.CategoryDepositBankTransfer,
			body, textutils.FirstGroup(body, reFirstAmount), hint)
	}
	return e.deposit(kind, RoutineGenericDeposit, models.CategoryDepositOther,
		body, textutils.FirstGroup(body, reFirstAmount), hint)
}

func (e *Extractor) deposit(kind models.MessageKind, r Routine, category, body, rawAmount string,
	hint time.Time) (*models.ParsedTransaction, error) {

	tx, err := e.newTx(kind, r, category, models.DirectionCredit, body, rawAmount, hint)
	if err != nil {
		return nil, err
	}
	tx.AgentOrBusinessID = models.StringPtr(textutils.FirstGroup(body, reAgentID))
	return tx, nil
}

func extractTransferToMobile(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	tx, err := e.newTx(models.KindTransferToMobile, RoutineTransferToMobile, models.CategoryTransferOutgoing,
		models.DirectionDebit, body, textutils.FirstGroup(body, reTransferAmount), hint)
	if err != nil {
		return nil, err
	}
	m := textutils.FirstSubmatch(body, reTransferRecipient)
	e.setCounterparty(tx, textutils.Group(m, 1), textutils.Group(m, 2))
	return tx, nil
}

func extractAirtime(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	return e.newTx(models.KindAirtimePurchase, RoutineAirtime, models.CategoryAirtime,
		models.DirectionDebit, body, textutils.FirstGroup(body, rePaymentAmount), hint)
}

func extractDataBundle(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	return e.newTx(models.KindDataBundlePurchase, RoutineDataBundle, models.CategoryDataBundle,
		models.DirectionDebit, body, textutils.FirstGroup(body, rePurchaseAmount), hint)
}

func extractBusinessPayment(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	tx, err := e.newTx(models.KindBusinessPayment, RoutineBusinessPayment, models.CategoryPaymentBusiness,
		models.DirectionDebit, body, textutils.FirstGroup(body, rePurchaseAmount), hint)
	if err != nil {
		return nil, err
	}
	e.setCounterparty(tx, textutils.FirstGroup(body, reBusinessName...), "")
	return tx, nil
}

func extractCashWithdrawal(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	tx, err := e.newTx(models.KindCashWithdrawal, RoutineCashWithdrawal, models.CategoryCashWithdrawal,
		models.DirectionDebit, body, textutils.FirstGroup(body, reWithdrawnAmount), hint)
	if err != nil {
		return nil, err
	}
	if m := textutils.FirstSubmatch(body, reWithdrawalAgent); m != nil {
		agentPhone := textutils.Group(m, 2)
		e.setCounterparty(tx, textutils.Group(m, 1), agentPhone)
		tx.AgentOrBusinessID = models.StringPtr(agentPhone)
	}
	return tx, nil
}

func extractBankTransfer(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	tx, err := e.newTx(models.KindBankTransfer, RoutineBankTransfer, models.CategoryTransferOutgoing,
		models.DirectionDebit, body, textutils.FirstGroup(body, reBankTransferAmount), hint)
	if err != nil {
		return nil, err
	}
	m := textutils.FirstSubmatch(body, reRecipientInParen)
	e.setCounterparty(tx, textutils.Group(m, 1), textutils.Group(m, 2))
	return tx, nil
}

func extractAlternativePayment(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	tx, err := e.newTx(models.KindAlternativePayment, RoutineAlternativePayment, models.CategoryPaymentPersonal,
		models.DirectionDebit, body, textutils.FirstGroup(body, rePaymentAmount), hint)
	if err != nil {
		return nil, err
	}
	if m := textutils.FirstSubmatch(body, reRecipientInParen); m != nil {
		e.setCounterparty(tx, textutils.Group(m, 1), textutils.Group(m, 2))
	} else {
		e.setCounterparty(tx, textutils.FirstGroup(body, rePaidTo), "")
	}
	return tx, nil
}

func extractFailed(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	tx, err := e.newTx(models.KindFailedTransaction, RoutineFailed, models.CategoryFailedTransaction,
		models.DirectionDebit, body, textutils.FirstGroup(body, reFailedAmount), hint)
	if err != nil {
		return nil, err
	}
	e.setCounterparty(tx, textutils.FirstGroup(body, reFailedService...), "")
	tx.OccurredAt = e.occurredAt(body, hint, reFailedAt, reOccurredAt)
	return tx, nil
}

func extractReversal(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	tx, err := e.newTx(models.KindReversal, RoutineReversal, models.CategoryReversal,
		models.DirectionCredit, body, textutils.FirstGroup(body, reReversalAmount, reReversalAny), hint)
	if err != nil {
		return nil, err
	}
	m := textutils.FirstSubmatch(body, reRecipientInParen)
	e.setCounterparty(tx, textutils.Group(m, 1), textutils.Group(m, 2))
	return tx, nil
}

func extractAlternativeDeposit(e *Extractor, body string, hint time.Time) (*models.ParsedTransaction, error) {
	tx, err := e.newTx(models.KindAlternativeDeposit, RoutineAlternativeDeposit, models.CategoryDepositAlternative,
		models.DirectionCredit, body, textutils.FirstGroup(body, reAltDepositAmount), hint)
	if err != nil {
		return nil, err
	}
	e.setCounterparty(tx, "", textutils.FirstGroup(body, reAltDepositReceiver))
	tx.OccurredAt = e.occurredAt(body, hint, reOccurredAt, reAnyDate)
	return tx, nil
}
