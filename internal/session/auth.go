package session

import (
	"context"
	"time"

	"github.com/liftedinit/gopay/internal/models"
)

const DefaultLoginDelay = time.Second

// Authenticator checks credentials and returns the matching user.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (models.User, error)
}

// MockAuthenticator accepts any credentials after a fixed delay.
// It performs no credential validation.
type MockAuthenticator struct {
	Delay time.Duration
}

func (a MockAuthenticator) Authenticate(ctx context.Context, email, _ string) (models.User, error) {
	timer := time.NewTimer(a.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return models.User{}, ctx.Err()
	case <-timer.C:
	}

	return models.User{
		ID:        "1",
		Email:     email,
		KYCStatus: models.KYCNone,
	}, nil
}
