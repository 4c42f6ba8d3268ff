package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/view"
)

const DefaultInterval = 5 * time.Second

// Fetcher reads the full ledger.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]models.Block, error)
}

// State is the last known ledger status.
// Err is the error of the most recent poll; the last good snapshot is kept alongside it.
type State struct {
	Snapshot  view.Snapshot
	Err       error
	Loaded    bool
	UpdatedAt time.Time
}

// Monitor polls the ledger on a fixed interval and keeps the latest snapshot.
type Monitor struct {
	fetcher  Fetcher
	interval time.Duration
	recent   int

	mu        sync.RWMutex
	blocks    []models.Block
	err       error
	loaded    bool
	updatedAt time.Time
}

func New(fetcher Fetcher, interval time.Duration, recent int) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		fetcher:  fetcher,
		interval: interval,
		recent:   recent,
	}
}

// Run polls until ctx is cancelled. The first poll happens immediately.
// Poll failures are recorded in the state and never stop the loop.
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("Starting ledger monitor", "interval", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		_ = m.Refresh(ctx)

		select {
		case <-ctx.Done():
			slog.Info("Ledger monitor stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Refresh polls the ledger once.
func (m *Monitor) Refresh(ctx context.Context) error {
	blocks, err := m.fetcher.FetchAll(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.updatedAt = time.Now()
	m.err = err
	if err != nil {
		slog.Warn("Failed to refresh ledger status", "error", err)
		return err
	}

	if len(blocks) > len(m.blocks) {
		slog.Info("New block detected", "height", len(blocks))
	}
	m.blocks = blocks
	m.loaded = true
	return nil
}

// State returns the current ledger status.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return State{
		Snapshot:  view.Build(m.blocks, m.recent),
		Err:       m.err,
		Loaded:    m.loaded,
		UpdatedAt: m.updatedAt,
	}
}

// Height returns the number of blocks seen in the last successful poll.
func (m *Monitor) Height() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blocks)
}
