package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/liftedinit/gopay/internal/models"
)

const (
	DefaultProcessingDelay = 2 * time.Second
	maxTransactionID       = 1000000
)

var ErrNotAuthenticated = errors.New("user is not authenticated")

// Appender appends entries to the ledger.
type Appender interface {
	Append(ctx context.Context, msg models.TransactionMessage) (*models.Block, error)
}

// State is the progress of a single payment attempt.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateProcessing
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CompensationPolicy chooses what happens when the compensating failed entry cannot be appended.
type CompensationPolicy string

const (
	// CompensationSilent logs the secondary failure and does not tell the user.
	CompensationSilent CompensationPolicy = "silent"
	// CompensationWarn logs the secondary failure and emits a separate warning notification.
	CompensationWarn CompensationPolicy = "warn"
)

func ParseCompensationPolicy(s string) (CompensationPolicy, error) {
	switch p := CompensationPolicy(s); p {
	case CompensationSilent, CompensationWarn:
		return p, nil
	default:
		return "", fmt.Errorf("invalid compensation policy: %s. Valid policies are: %s|%s", s, CompensationSilent, CompensationWarn)
	}
}

// Request is a validated payment as entered by the user.
// Only the user and transaction id reach the ledger; the rest is logged.
type Request struct {
	Amount      float64
	Currency    string
	Recipient   string
	Description string
}

// Result is the outcome of a payment attempt.
type Result struct {
	TransactionID int
	State         State
	Pending       *models.Block
	Final         *models.Block
	Err           error
	// Warning is set when the compensating entry failed under CompensationWarn.
	Warning string
}

// Flow runs payment attempts against the ledger.
type Flow struct {
	ledger   Appender
	delay    time.Duration
	policy   CompensationPolicy
	sleep    func(time.Duration)
	newID    func() int
	observer func(State)
}

type Option func(*Flow)

// WithSleep replaces the function used to wait out the processing delay.
func WithSleep(sleep func(time.Duration)) Option {
	return func(f *Flow) { f.sleep = sleep }
}

// WithTransactionIDs replaces the transaction id generator.
func WithTransactionIDs(newID func() int) Option {
	return func(f *Flow) { f.newID = newID }
}

// WithObserver registers a callback invoked on every state transition.
func WithObserver(observer func(State)) Option {
	return func(f *Flow) { f.observer = observer }
}

func NewFlow(ledger Appender, delay time.Duration, policy CompensationPolicy, opts ...Option) *Flow {
	if policy == "" {
		policy = CompensationSilent
	}
	f := &Flow{
		ledger: ledger,
		delay:  delay,
		policy: policy,
		sleep:  time.Sleep,
		newID:  func() int { return rand.IntN(maxTransactionID) },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submit runs one payment attempt for user and reports exactly one outcome through notifier.
// The attempt is not cancelled by ctx: once started it runs to completion or failure.
func (f *Flow) Submit(ctx context.Context, user *models.User, req Request, notifier Notifier) Result {
	if user == nil {
		notifier.Notify(LevelError, MsgLoginRequired)
		return Result{State: StateIdle, Err: ErrNotAuthenticated}
	}

	ctx = context.WithoutCancel(ctx)
	res := Result{TransactionID: f.newID()}
	logger := slog.With("user_id", user.ID, "transaction_id", res.TransactionID)
	logger.Info("Submitting payment", "amount", req.Amount, "currency", req.Currency, "recipient", req.Recipient)

	f.transition(&res, StateSubmitting)
	pending, err := f.ledger.Append(ctx, newMessage(user, res.TransactionID, models.StatusPending))
	if err != nil {
		return f.fail(ctx, logger, user, res, err, notifier)
	}
	res.Pending = pending

	f.transition(&res, StateProcessing)
	f.sleep(f.delay)

	final, err := f.ledger.Append(ctx, newMessage(user, res.TransactionID, models.StatusCompleted))
	if err != nil {
		return f.fail(ctx, logger, user, res, err, notifier)
	}
	res.Final = final

	f.transition(&res, StateCompleted)
	logger.Info("Payment processed", "block", final.Index)
	notifier.Notify(LevelSuccess, MsgSuccess)
	return res
}

func (f *Flow) fail(ctx context.Context, logger *slog.Logger, user *models.User, res Result, cause error, notifier Notifier) Result {
	logger.Error("Payment failed", "state", res.State.String(), "error", cause)
	res.Err = cause
	f.transition(&res, StateFailed)
	notifier.Notify(LevelError, MsgFailure)

	final, err := f.ledger.Append(ctx, newMessage(user, res.TransactionID, models.StatusFailed))
	if err != nil {
		logger.Error("Failed to record transaction failure", "policy", string(f.policy), "error", err)
		if f.policy == CompensationWarn {
			res.Warning = MsgUnrecordedFailure
			notifier.Notify(LevelWarning, MsgUnrecordedFailure)
		}
		return res
	}
	res.Final = final
	return res
}

func (f *Flow) transition(res *Result, s State) {
	res.State = s
	if f.observer != nil {
		f.observer(s)
	}
}

func newMessage(user *models.User, id int, status models.TransactionStatus) models.TransactionMessage {
	return models.TransactionMessage{
		UserID:            user.ID,
		TransactionID:     id,
		TransactionStatus: status,
	}
}
