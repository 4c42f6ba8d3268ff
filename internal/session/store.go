package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/liftedinit/gopay/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

// Session is the authentication state of one browser or CLI user.
type Session struct {
	ID   string
	User *models.User
}

// IsAuthenticated reports whether a user is attached to the session.
func (s Session) IsAuthenticated() bool {
	return s.User != nil
}

type entry struct {
	user    models.User
	flashes []Flash
}

// Store holds sessions in memory. Sessions do not survive a restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

// Create starts an authenticated session for user.
func (s *Store) Create(user models.User) (Session, error) {
	id, err := newID()
	if err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{user: user}

	return Session{ID: id, User: &user}, nil
}

// Get returns a copy of the session with the given id.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	user := e.user
	return Session{ID: id, User: &user}, nil
}

// Delete ends the session. Deleting an unknown session is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// SetKYCStatus updates the KYC status of the session's user.
func (s *Store) SetKYCStatus(id string, status models.KYCStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	e.user.KYCStatus = status
	return nil
}

// AddFlash queues a notification for the session.
func (s *Store) AddFlash(id string, level, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	e.flashes = append(e.flashes, Flash{Level: level, Message: message})
	return nil
}

// PopFlashes returns and clears the queued notifications.
func (s *Store) PopFlashes(id string) []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil
	}
	flashes := e.flashes
	e.flashes = nil
	return flashes
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func newID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
