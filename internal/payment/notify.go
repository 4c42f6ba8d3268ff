package payment

// Level is the severity of a user-facing notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

const (
	MsgSuccess           = "Payment processed successfully!"
	MsgFailure           = "Payment failed. Please try again."
	MsgLoginRequired     = "Please log in to make a payment"
	MsgUnrecordedFailure = "The failed payment could not be recorded on the ledger."
)

// Notifier delivers user-facing notifications.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// Notification is a recorded notification.
type Notification struct {
	Level   Level
	Message string
}
