package session

import (
	"context"
	"fmt"
	"log/slog"
)

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session carried by ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

// Manager ties the authentication port, the session store and the token codec together.
type Manager struct {
	auth   Authenticator
	store  *Store
	tokens *TokenCodec
}

func NewManager(auth Authenticator, store *Store, tokens *TokenCodec) *Manager {
	return &Manager{auth: auth, store: store, tokens: tokens}
}

// Store returns the underlying session store.
func (m *Manager) Store() *Store {
	return m.store
}

// Login authenticates the credentials and returns the new session and its token.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, string, error) {
	user, err := m.auth.Authenticate(ctx, email, password)
	if err != nil {
		return Session{}, "", fmt.Errorf("authentication failed: %w", err)
	}

	s, err := m.store.Create(user)
	if err != nil {
		return Session{}, "", err
	}

	token, err := m.tokens.Encode(s.ID)
	if err != nil {
		m.store.Delete(s.ID)
		return Session{}, "", err
	}

	slog.Info("User logged in", "user_id", user.ID, "email", user.Email)
	return s, token, nil
}

// Logout ends the session.
func (m *Manager) Logout(s Session) {
	m.store.Delete(s.ID)
	if s.User != nil {
		slog.Info("User logged out", "user_id", s.User.ID)
	}
}

// Resolve returns the session referenced by token.
func (m *Manager) Resolve(token string) (Session, error) {
	id, err := m.tokens.Decode(token)
	if err != nil {
		return Session{}, err
	}
	return m.store.Get(id)
}
