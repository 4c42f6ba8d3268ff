package gopay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftedinit/gopay/internal/client"
	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/testutil"
)

func chain(n int) []models.Block {
	blocks := make([]models.Block, n)
	prev := ""
	for i := range blocks {
		blocks[i] = models.Block{
			Index:             i,
			UserID:            "1",
			Timestamp:         testutil.GenesisTime.String(),
			TransactionID:     100 + i,
			TransactionStatus: models.StatusCompleted,
			PrevHash:          prev,
		}
		blocks[i].Hash = testutil.HashBlock(blocks[i])
		prev = blocks[i].Hash
	}
	return blocks
}

func TestStatusCmd(t *testing.T) {
	ledger := testutil.NewFakeLedger(t)

	output, err := execute(t, "status", "--ledger-addr", ledger.URL, "--recent", "5")
	require.NoError(t, err)
	assert.Contains(t, output, "Current Height: 1")
	assert.Contains(t, output, "#0")
	assert.Contains(t, output, "Gas fee")

	blocks := chain(7)
	ledger.SetBlocks(blocks)
	output, err = execute(t, "status", "--ledger-addr", ledger.URL, "--recent", "5")
	require.NoError(t, err)
	assert.Contains(t, output, "Current Height: 7")
	assert.Contains(t, output, "Latest Block Hash: "+blocks[6].Hash)
	assert.Contains(t, output, "#6")
	assert.Contains(t, output, "#2")
	assert.NotContains(t, output, "#1")
	assert.Contains(t, output, "106")
}

func TestStatusCmdEmptyLedger(t *testing.T) {
	ledger := testutil.NewFakeLedger(t)
	ledger.SetBlocks([]models.Block{})

	output, err := execute(t, "status", "--ledger-addr", ledger.URL, "--recent", "5")
	require.NoError(t, err)
	assert.Contains(t, output, "Current Height: 0")
	assert.Contains(t, output, "Latest Block Hash: N/A")
}

func TestStatusCmdLedgerDown(t *testing.T) {
	ledger := testutil.NewFakeLedger(t)
	ledger.FailFetches(1)

	output, err := execute(t, "status", "--ledger-addr", ledger.URL, "--recent", "5")
	var fetchErr *client.FetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.ErrorContains(t, err, "failed to load ledger status")
	assert.Contains(t, output, "Failed to load blockchain status")
}

func TestStatusCmdInvalidWatchInterval(t *testing.T) {
	ledger := testutil.NewFakeLedger(t)
	t.Cleanup(func() {
		// Flag values outlive a run; leave watch mode off for the other status tests.
		_, _ = execute(t, "status", "--ledger-addr", ledger.URL, "--watch=false", "--interval", "5s", "--recent", "5")
	})

	for _, interval := range []string{"0s", "-1s"} {
		var err error
		assert.NotPanics(t, func() {
			_, err = execute(t, "status", "--ledger-addr", ledger.URL, "--watch", "--interval="+interval)
		})
		assert.ErrorContains(t, err, "invalid status configuration: watch interval must be positive")
	}

	_, err := execute(t, "status", "--ledger-addr", ledger.URL, "--watch=false", "--interval", "0s", "--recent=-1")
	assert.ErrorContains(t, err, "recent block count cannot be negative")
}

func TestBlockCmd(t *testing.T) {
	ledger := testutil.NewFakeLedger(t)
	ledger.SetBlocks(chain(3))

	output, err := execute(t, "block", "2", "--ledger-addr", ledger.URL)
	require.NoError(t, err)
	assert.Contains(t, output, "102")
	assert.Contains(t, output, "completed")

	_, err = execute(t, "block", "9", "--ledger-addr", ledger.URL)
	assert.ErrorIs(t, err, client.ErrBlockNotFound)
	assert.ErrorContains(t, err, "failed to fetch block 9")

	_, err = execute(t, "block", "x", "--ledger-addr", ledger.URL)
	assert.ErrorContains(t, err, "invalid block index: x")
}
