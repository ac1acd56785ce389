package categorizer

import (
	"context"

	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"
)

var kindGroups = map[models.MessageKind]string{
	models.KindIncomingMoney:      models.GroupTransfer,
	models.KindTransferToMobile:   models.GroupTransfer,
	models.KindBankTransfer:       models.GroupTransfer,
	models.KindPaymentToCode:      models.GroupPayment,
	models.KindAlternativePayment: models.GroupPayment,
	models.KindBusinessPayment:    models.GroupPayment,
	models.KindDepositFromAgent:   models.GroupDeposit,
	models.KindAlternativeDeposit: models.GroupDeposit,
	models.KindAirtimePurchase:    models.GroupAirtime,
	models.KindDataBundlePurchase: models.GroupDataBundle,
	models.KindCashWithdrawal:     models.GroupWithdrawal,
}

// KindMappingStrategy assigns the business category directly from the
// message kind when the kind leaves no doubt about it.
type KindMappingStrategy struct {
	logger logging.Logger
}

// NewKindMappingStrategy creates a new KindMappingStrategy instance.
func NewKindMappingStrategy(logger logging.Logger) *KindMappingStrategy {
	return &KindMappingStrategy{logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KindMappingStrategy) Name() string {
	return StrategyKindMapping
}

// Categorize looks the transaction kind up in the fixed mapping.
func (s *KindMappingStrategy) Categorize(_ context.Context, tx *models.ParsedTransaction) (Result, bool, error) {
	group, ok := kindGroups[tx.Kind]
	if !ok {
		return Result{}, false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldKind, Value: tx.Kind},
		logging.Field{Key: logging.FieldCategory, Value: group},
	).Debug("Transaction categorized from message kind")

	return Result{Category: group, Confidence: 1.0, Strategy: s.Name()}, true, nil
}
