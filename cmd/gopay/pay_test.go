package gopay_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/payment"
	"github.com/liftedinit/gopay/internal/testutil"
)

func pay(t *testing.T, ledger *testutil.FakeLedger, args ...string) (string, error) {
	t.Helper()
	base := []string{
		"pay",
		"--ledger-addr", ledger.URL,
		"--processing-delay", "0s",
		"--compensation-policy", "silent",
		"--user-id", "1",
		"--currency", "EUR",
		"--recipient", "bob",
		"--amount", "25",
	}
	return execute(t, append(base, args...)...)
}

func TestPayCmd(t *testing.T) {
	ledger := testutil.NewFakeLedger(t)

	output, err := pay(t, ledger)
	require.NoError(t, err)
	assert.Contains(t, output, payment.MsgSuccess)
	assert.Contains(t, output, "recorded in block 2")

	appended := ledger.Appended()
	require.Len(t, appended, 2)
	assert.Equal(t, models.StatusPending, appended[0].TransactionStatus)
	assert.Equal(t, models.StatusCompleted, appended[1].TransactionStatus)
	assert.Equal(t, appended[0].TransactionID, appended[1].TransactionID)
}

func TestPayCmdValidation(t *testing.T) {
	ledger := testutil.NewFakeLedger(t)

	output, err := pay(t, ledger, "--amount", "-1", "--recipient", "")
	assert.ErrorContains(t, err, "invalid form fields: amount, recipient")
	assert.Contains(t, output, "amount: Valid amount required")
	assert.Contains(t, output, "recipient: Recipient required")
	assert.Empty(t, ledger.Appended())

	_, err = pay(t, ledger, "--compensation-policy", "loud")
	assert.ErrorContains(t, err, "invalid compensation policy: loud")
	assert.Empty(t, ledger.Appended())
}

func TestPayCmdNotLoggedIn(t *testing.T) {
	ledger := testutil.NewFakeLedger(t)

	output, err := pay(t, ledger, "--user-id", "")
	assert.ErrorIs(t, err, payment.ErrNotAuthenticated)
	assert.Contains(t, output, payment.MsgLoginRequired)
	assert.Empty(t, ledger.Appended())
}

func TestPayCmdFailure(t *testing.T) {
	tests := []struct {
		name        string
		policy      string
		failFailed  bool
		wantWarning bool
	}{
		{"Recorded", "silent", false, false},
		{"SilentUnrecorded", "silent", true, false},
		{"WarnUnrecorded", "warn", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := testutil.NewFakeLedger(t)
			ledger.FailAppendWhen(func(m models.TransactionMessage) bool {
				return m.TransactionStatus == models.StatusCompleted ||
					(tt.failFailed && m.TransactionStatus == models.StatusFailed)
			})

			output, err := pay(t, ledger, "--compensation-policy", tt.policy)
			assert.ErrorContains(t, err, "failed to add block")
			assert.Equal(t, 1, strings.Count(output, payment.MsgFailure))
			assert.Equal(t, tt.wantWarning, strings.Contains(output, payment.MsgUnrecordedFailure))

			appended := ledger.Appended()
			require.Len(t, appended, 3)
			assert.Equal(t, models.StatusFailed, appended[2].TransactionStatus)
		})
	}
}
