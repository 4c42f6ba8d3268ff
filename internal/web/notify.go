package web

import (
	"log/slog"

	"github.com/liftedinit/gopay/internal/payment"
	"github.com/liftedinit/gopay/internal/session"
)

const (
	levelSuccess = string(payment.LevelSuccess)
	levelError   = string(payment.LevelError)

	msgLoggedIn     = "Successfully logged in!"
	msgLoginFailed  = "Login failed. Please try again."
	msgKYCSubmitted = "KYC information submitted for review."
	msgKYCFailed    = "KYC submission failed. Please try again."
)

// flashNotifier turns payment notifications into flash messages of one session.
type flashNotifier struct {
	store     *session.Store
	sessionID string
}

func (n flashNotifier) Notify(level payment.Level, message string) {
	if err := n.store.AddFlash(n.sessionID, string(level), message); err != nil {
		slog.Warn("Failed to queue notification", "message", message, "error", err)
	}
}
