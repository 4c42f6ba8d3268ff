package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/liftedinit/gopay/internal/client"
	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/payment"
	"github.com/liftedinit/gopay/internal/testutil"
)

type mockLedger struct {
	mock.Mock
	events []string
}

func (m *mockLedger) Append(ctx context.Context, msg models.TransactionMessage) (*models.Block, error) {
	m.events = append(m.events, "append:"+string(msg.TransactionStatus))
	args := m.Called(ctx, msg)
	block, _ := args.Get(0).(*models.Block)
	return block, args.Error(1)
}

type recorder struct {
	notifications []payment.Notification
}

func (r *recorder) Notify(level payment.Level, message string) {
	r.notifications = append(r.notifications, payment.Notification{Level: level, Message: message})
}

func (r *recorder) count(level payment.Level) int {
	n := 0
	for _, notification := range r.notifications {
		if notification.Level == level {
			n++
		}
	}
	return n
}

var (
	user    = &models.User{ID: "1", Email: "alice@example.com", KYCStatus: models.KYCNone}
	request = payment.Request{Amount: 25, Currency: "USD", Recipient: "bob"}
)

func msg(status models.TransactionStatus) models.TransactionMessage {
	return models.TransactionMessage{UserID: "1", TransactionID: 4242, TransactionStatus: status}
}

func newFlow(ledger payment.Appender, policy payment.CompensationPolicy, events *[]string, states *[]payment.State) *payment.Flow {
	return payment.NewFlow(ledger, 2*time.Second, policy,
		payment.WithTransactionIDs(func() int { return 4242 }),
		payment.WithSleep(func(d time.Duration) {
			*events = append(*events, "sleep:"+d.String())
		}),
		payment.WithObserver(func(s payment.State) {
			if states != nil {
				*states = append(*states, s)
			}
		}),
	)
}

func TestSubmitCompleted(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("Append", mock.Anything, msg(models.StatusPending)).Return(&models.Block{Index: 1}, nil).Once()
	ledger.On("Append", mock.Anything, msg(models.StatusCompleted)).Return(&models.Block{Index: 2}, nil).Once()

	var states []payment.State
	notifier := &recorder{}
	res := newFlow(ledger, payment.CompensationSilent, &ledger.events, &states).Submit(context.Background(), user, request, notifier)

	require.NoError(t, res.Err)
	assert.Equal(t, payment.StateCompleted, res.State)
	assert.Equal(t, 4242, res.TransactionID)
	assert.Equal(t, 1, res.Pending.Index)
	assert.Equal(t, 2, res.Final.Index)
	assert.Equal(t, []string{"append:pending", "sleep:2s", "append:completed"}, ledger.events)
	assert.Equal(t, []payment.State{payment.StateSubmitting, payment.StateProcessing, payment.StateCompleted}, states)
	assert.Equal(t, []payment.Notification{{Level: payment.LevelSuccess, Message: payment.MsgSuccess}}, notifier.notifications)
	ledger.AssertExpectations(t)
}

func TestSubmitPendingFails(t *testing.T) {
	for _, policy := range []payment.CompensationPolicy{payment.CompensationSilent, payment.CompensationWarn} {
		t.Run(string(policy), func(t *testing.T) {
			ledger := &mockLedger{}
			appendErr := &client.AppendError{Err: errors.New("boom")}
			ledger.On("Append", mock.Anything, msg(models.StatusPending)).Return(nil, appendErr).Once()
			ledger.On("Append", mock.Anything, msg(models.StatusFailed)).Return(&models.Block{Index: 1}, nil).Once()

			var states []payment.State
			notifier := &recorder{}
			res := newFlow(ledger, policy, &ledger.events, &states).Submit(context.Background(), user, request, notifier)

			assert.ErrorIs(t, res.Err, appendErr)
			assert.Equal(t, payment.StateFailed, res.State)
			assert.Empty(t, res.Warning)
			assert.Equal(t, []string{"append:pending", "append:failed"}, ledger.events, "no delay after a failed pending entry")
			assert.Equal(t, []payment.State{payment.StateSubmitting, payment.StateFailed}, states)
			assert.Equal(t, 1, notifier.count(payment.LevelError))
			assert.Len(t, notifier.notifications, 1)
			ledger.AssertExpectations(t)
		})
	}
}

func TestSubmitCompletedFails(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("Append", mock.Anything, msg(models.StatusPending)).Return(&models.Block{Index: 1}, nil).Once()
	ledger.On("Append", mock.Anything, msg(models.StatusCompleted)).Return(nil, errors.New("ledger down")).Once()
	ledger.On("Append", mock.Anything, msg(models.StatusFailed)).Return(&models.Block{Index: 2}, nil).Once()

	notifier := &recorder{}
	res := newFlow(ledger, payment.CompensationSilent, &ledger.events, nil).Submit(context.Background(), user, request, notifier)

	assert.Equal(t, payment.StateFailed, res.State)
	assert.Equal(t, 2, res.Final.Index)
	assert.Equal(t, []string{"append:pending", "sleep:2s", "append:completed", "append:failed"}, ledger.events)
	assert.Equal(t, []payment.Notification{{Level: payment.LevelError, Message: payment.MsgFailure}}, notifier.notifications)
	ledger.AssertExpectations(t)
}

func TestSubmitCompensationFails(t *testing.T) {
	tests := []struct {
		policy      payment.CompensationPolicy
		wantWarning string
		wantNotices int
	}{
		{payment.CompensationSilent, "", 1},
		{payment.CompensationWarn, payment.MsgUnrecordedFailure, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			ledger := &mockLedger{}
			ledger.On("Append", mock.Anything, mock.Anything).Return(nil, errors.New("ledger down"))

			notifier := &recorder{}
			res := newFlow(ledger, tt.policy, &ledger.events, nil).Submit(context.Background(), user, request, notifier)

			assert.Equal(t, payment.StateFailed, res.State)
			assert.Equal(t, tt.wantWarning, res.Warning)
			assert.Equal(t, 1, notifier.count(payment.LevelError), "exactly one failure notification")
			assert.Len(t, notifier.notifications, tt.wantNotices)
			assert.Equal(t, []string{"append:pending", "append:failed"}, ledger.events)
		})
	}
}

func TestSubmitUnauthenticated(t *testing.T) {
	ledger := &mockLedger{}
	notifier := &recorder{}

	res := newFlow(ledger, payment.CompensationSilent, &ledger.events, nil).Submit(context.Background(), nil, request, notifier)

	assert.ErrorIs(t, res.Err, payment.ErrNotAuthenticated)
	assert.Equal(t, payment.StateIdle, res.State)
	assert.Equal(t, []payment.Notification{{Level: payment.LevelError, Message: payment.MsgLoginRequired}}, notifier.notifications)
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSubmitIgnoresCancellation(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("Append", mock.Anything, mock.Anything).Return(&models.Block{}, nil).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		assert.NoError(t, ctx.Err())
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newFlow(ledger, payment.CompensationSilent, &ledger.events, nil).Submit(ctx, user, request, &recorder{})
	assert.Equal(t, payment.StateCompleted, res.State)
}

func TestSubmitAgainstLedger(t *testing.T) {
	ledger := testutil.NewFakeLedger(t)
	c, err := client.NewLedgerClient(ledger.URL, time.Second)
	require.NoError(t, err)

	ledger.FailAppendWhen(func(m models.TransactionMessage) bool {
		return m.TransactionStatus == models.StatusCompleted
	})

	notifier := &recorder{}
	flow := payment.NewFlow(c, time.Millisecond, payment.CompensationSilent)
	res := flow.Submit(context.Background(), user, request, notifier)

	assert.Equal(t, payment.StateFailed, res.State)
	appended := ledger.Appended()
	require.Len(t, appended, 3)
	assert.Equal(t, models.StatusPending, appended[0].TransactionStatus)
	assert.Equal(t, models.StatusCompleted, appended[1].TransactionStatus)
	assert.Equal(t, models.StatusFailed, appended[2].TransactionStatus)
	for _, m := range appended {
		assert.Equal(t, res.TransactionID, m.TransactionID)
	}
	assert.Equal(t, 1, notifier.count(payment.LevelError))
}

func TestParseCompensationPolicy(t *testing.T) {
	p, err := payment.ParseCompensationPolicy("warn")
	require.NoError(t, err)
	assert.Equal(t, payment.CompensationWarn, p)

	_, err = payment.ParseCompensationPolicy("retry")
	assert.ErrorContains(t, err, "invalid compensation policy: retry. Valid policies are: silent|warn")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "processing", payment.StateProcessing.String())
	assert.Equal(t, "State(42)", payment.State(42).String())
}
