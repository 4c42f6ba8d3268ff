// Package kyc stores submitted KYC records.
package kyc

import (
	"context"
	"sync"
	"time"

	"github.com/liftedinit/gopay/internal/models"
)

// Submission is a stored KYC record.
type Submission struct {
	UserID      string
	Data        models.KYCData
	SubmittedAt time.Time
}

// Store persists KYC submissions.
type Store interface {
	Save(ctx context.Context, userID string, data models.KYCData) error
	Count(ctx context.Context) (int64, error)
	Close() error
}

// MemoryStore keeps submissions in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	submissions []Submission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, userID string, data models.KYCData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, Submission{UserID: userID, Data: data, SubmittedAt: time.Now()})
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.submissions)), nil
}

// Submissions returns a copy of the stored submissions, oldest first.
func (s *MemoryStore) Submissions() []Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Submission(nil), s.submissions...)
}

func (s *MemoryStore) Close() error {
	return nil
}
