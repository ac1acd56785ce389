package classifier

import (
	"testing"

	"momoledger/momo-ingest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected models.MessageKind
	}{
		{
			name:     "incoming money",
			body:     "You have received 50000 RWF from John Doe (+256700123456) at 2024-05-10 14:30:00. Financial Transaction Id: TXN123456.",
			expected: models.KindIncomingMoney,
		},
		{
			name:     "incoming money wins over later markers",
			body:     "You have received 2000 RWF. Your payment of 1000 RWF has been completed. *165*S*",
			expected: models.KindIncomingMoney,
		},
		{
			name:     "airtime",
			body:     "*162*TxId:13913173274*S*Your payment of 2000 RWF to Airtime with token  has been completed at 2024-05-12 11:41:28.",
			expected: models.KindAirtimePurchase,
		},
		{
			name:     "data bundle via 162",
			body:     "*162*TxId:14098463509*S*Your payment of 2000 RWF to Bundles and Packs with token has been completed.",
			expected: models.KindDataBundlePurchase,
		},
		{
			name:     "business payment via 162",
			body:     "*162*TxId:13913173274*S*Your payment of 3000 RWF to MTN Cash Power with token 1234 has been completed.",
			expected: models.KindBusinessPayment,
		},
		{
			name:     "payment to code",
			body:     "TxId: 73214484437. Your payment of 1,000 RWF to Jane Smith 12845 has been completed at 2024-05-10 21:32:32.",
			expected: models.KindPaymentToCode,
		},
		{
			name:     "deposit from agent",
			body:     "*113*R*A bank deposit of 40000 RWF has been added to your mobile money account at 2024-05-11 18:43:49. Your NEW BALANCE :40400 RWF.",
			expected: models.KindDepositFromAgent,
		},
		{
			name:     "deposit other",
			body:     "*113*R*A cash deposit of 5000 RWF has been added to your account. NEW BALANCE :5400 RWF.",
			expected: models.KindDepositOther,
		},
		{
			name:     "transfer to mobile",
			body:     "*165*S*75000 RWF transferred to Alex Doe (250700123457) from 36521838 at 2024-05-10 15:00:00. Fee was: 100 RWF. New balance: 75000 RWF.",
			expected: models.KindTransferToMobile,
		},
		{
			name:     "data bundle via 164",
			body:     "*164*S*Y'ello,A transaction of 2000 RWF by Data Bundle MTN on your MOMO account was successfully completed.",
			expected: models.KindDataBundlePurchase,
		},
		{
			name:     "business payment via 164",
			body:     "*164*S*Y'ello,A transaction of 5000 RWF by DIRECT PAYMENT LTD on your MOMO account was successfully completed.",
			expected: models.KindBusinessPayment,
		},
		{
			name:     "cash withdrawal",
			body:     "You Abebe Chala (*********036) have via agent: Agent Sophia (250790777777), withdrawn 20000 RWF from your mobile money account: 36521838 at 2024-05-26 02:10:27. Fee paid: 350 RWF.",
			expected: models.KindCashWithdrawal,
		},
		{
			name:     "bank transfer",
			body:     "You have transferred 50000 RWF to Eric (imbank.bank) from your mobile money account 36521838 at 2024-06-02.",
			expected: models.KindBankTransfer,
		},
		{
			name:     "alternative payment without txid",
			body:     "Your payment of 1,500 RWF to Corner Shop has been completed at 2024-05-12 10:00:00.",
			expected: models.KindAlternativePayment,
		},
		{
			name:     "failed transaction",
			body:     "*143*TxId:123*Your transaction of amount 5000 RWF has failed at 2024-05-12.",
			expected: models.KindFailedTransaction,
		},
		{
			name:     "reversal",
			body:     "Your transaction with 5000 RWF has been reversed. Your new balance is 10000 RWF.",
			expected: models.KindReversal,
		},
		{
			name:     "reversal initiated",
			body:     "A reversal has been initiated for your transaction of 700 RWF.",
			expected: models.KindReversal,
		},
		{
			name:     "alternative deposit",
			body:     "Deposit RWF 10,000 completed. Receiver: 250788123456. TxId: 998877.",
			expected: models.KindAlternativeDeposit,
		},
		{
			name:     "case insensitive",
			body:     "YOU HAVE RECEIVED 1 rwf",
			expected: models.KindIncomingMoney,
		},
		{
			name:     "unrecognized",
			body:     "Your MTN bill is due tomorrow.",
			expected: models.KindUnrecognized,
		},
		{
			name:     "empty",
			body:     "",
			expected: models.KindUnrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.body))
		})
	}
}

func TestClassify_IsTotal(t *testing.T) {
	inputs := []string{"", " ", "*", "TXID:", "*162*TXID:", "*143*", "RECEIVER:", "😀 emoji", "\x00\xff"}
	for _, in := range inputs {
		kind := Classify(in)
		assert.True(t, kind.IsValid(), "input %q produced invalid kind %q", in, kind)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	body := "*165*S*10 RWF transferred to X (250788000000)"
	first := Classify(body)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(body))
	}
}

func TestClassifyWithRule(t *testing.T) {
	kind, rule := ClassifyWithRule("*113*R*A cash deposit of 10 RWF")
	assert.Equal(t, models.KindDepositOther, kind)
	assert.Equal(t, "deposit-other", rule)

	kind, rule = ClassifyWithRule("hello")
	assert.Equal(t, models.KindUnrecognized, kind)
	assert.Empty(t, rule)
}

func TestRules(t *testing.T) {
	table := Rules()
	require.Len(t, table, 16)
	assert.Equal(t, models.KindIncomingMoney, table[0].Kind)
	assert.Equal(t, models.KindAlternativeDeposit, table[len(table)-1].Kind)

	// every recognized kind is reachable
	reachable := map[models.MessageKind]bool{}
	for _, r := range table {
		reachable[r.Kind] = true
		assert.NotEmpty(t, r.Name)
	}
	for _, k := range models.AllKinds() {
		if k.Recognized() {
			assert.True(t, reachable[k], "kind %s has no rule", k)
		}
	}

	// returned table is a copy
	table[0].All[0] = "MUTATED"
	table[0].Kind = models.KindReversal
	assert.Equal(t, models.KindIncomingMoney, Classify("you have received 5 RWF"))
	assert.Equal(t, "YOU HAVE RECEIVED", Rules()[0].All[0])
}
