package monitor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftedinit/gopay/internal/client"
	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/monitor"
	"github.com/liftedinit/gopay/internal/testutil"
)

func newMonitor(t *testing.T, interval time.Duration) (*monitor.Monitor, *testutil.FakeLedger, *client.LedgerClient) {
	t.Helper()
	ledger := testutil.NewFakeLedger(t)
	c, err := client.NewLedgerClient(ledger.URL, time.Second)
	require.NoError(t, err)
	return monitor.New(c, interval, 5), ledger, c
}

func TestStateBeforeFirstPoll(t *testing.T) {
	m, _, _ := newMonitor(t, time.Second)

	state := m.State()
	assert.False(t, state.Loaded)
	assert.NoError(t, state.Err)
	assert.Equal(t, 0, state.Snapshot.Height)
	assert.Equal(t, "N/A", state.Snapshot.LatestHash)
}

func TestRefresh(t *testing.T) {
	m, ledger, c := newMonitor(t, time.Second)
	ctx := context.Background()

	require.NoError(t, m.Refresh(ctx))
	assert.True(t, m.State().Loaded)
	assert.Equal(t, 1, m.Height())

	_, err := c.Append(ctx, models.TransactionMessage{UserID: "1", TransactionID: 5, TransactionStatus: models.StatusPending})
	require.NoError(t, err)

	require.NoError(t, m.Refresh(ctx))
	state := m.State()
	assert.Equal(t, 2, state.Snapshot.Height)
	assert.Equal(t, ledger.Blocks()[1].Hash, state.Snapshot.LatestHash)
	assert.Equal(t, 1, state.Snapshot.Recent[0].Index)
}

func TestRefreshErrorKeepsLastSnapshot(t *testing.T) {
	m, ledger, _ := newMonitor(t, time.Second)
	ctx := context.Background()

	require.NoError(t, m.Refresh(ctx))

	ledger.FailFetches(1)
	require.Error(t, m.Refresh(ctx))
	state := m.State()
	assert.Error(t, state.Err)
	assert.True(t, state.Loaded)
	assert.Equal(t, 1, state.Snapshot.Height)

	require.NoError(t, m.Refresh(ctx))
	assert.NoError(t, m.State().Err)
}

func TestRunPollsUntilCancelled(t *testing.T) {
	m, _, c := newMonitor(t, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return m.State().Loaded }, time.Second, 5*time.Millisecond)

	_, err := c.Append(context.Background(), models.TransactionMessage{UserID: "1", TransactionID: 9, TransactionStatus: models.StatusCompleted})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return m.Height() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}
}
