package extractor

// Routine names an extraction routine. DepositOther messages are handled by
// one of four deposit routines.
type Routine string

const (
	RoutineIncoming            Routine = "incoming"
	RoutinePaymentToCode       Routine = "payment_to_code"
	RoutineAgentDeposit        Routine = "agent_deposit"
	RoutineCashDeposit         Routine = "cash_deposit"
	RoutineBankTransferDeposit Routine = "bank_transfer_deposit"
	RoutineGenericDeposit      Routine = "generic_deposit"
	RoutineTransferToMobile    Routine = "transfer_to_mobile"
	RoutineAirtime             Routine = "airtime"
	RoutineDataBundle          Routine = "data_bundle"
	RoutineBusinessPayment     Routine = "business_payment"
	RoutineCashWithdrawal      Routine = "cash_withdrawal"
	RoutineBankTransfer        Routine = "bank_transfer"
	RoutineAlternativePayment  Routine = "alternative_payment"
	RoutineFailed              Routine = "failed"
	RoutineReversal            Routine = "reversal"
	RoutineAlternativeDeposit  Routine = "alternative_deposit"
)

// DefaultConfidence applies to routines absent from a table.
const DefaultConfidence = 0.95

// ConfidenceTable maps each routine to the confidence it reports.
type ConfidenceTable struct {
	Version string
	Scores  map[Routine]float64
}

// ConfidenceV1 is the current confidence table.
var ConfidenceV1 = ConfidenceTable{
	Version: "v1",
	Scores: map[Routine]float64{
		RoutineIncoming:            0.95,
		RoutinePaymentToCode:       0.95,
		RoutineAgentDeposit:        0.95,
		RoutineCashDeposit:         0.90,
		RoutineBankTransferDeposit: 0.90,
		RoutineGenericDeposit:      0.80,
		RoutineTransferToMobile:    0.95,
		RoutineAirtime:             0.95,
		RoutineDataBundle:          0.95,
		RoutineBusinessPayment:     0.95,
		RoutineCashWithdrawal:      0.95,
		RoutineBankTransfer:        0.95,
		RoutineAlternativePayment:  0.95,
		RoutineFailed:              0.90,
		RoutineReversal:            0.90,
		RoutineAlternativeDeposit:  0.85,
	},
}

// Lookup returns the routine's confidence clamped to [0,1].
func (t ConfidenceTable) Lookup(r Routine) float64 {
	score, ok := t.Scores[r]
	if !ok {
		score = DefaultConfidence
	}
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}
