// internal/store/memory.go
//
// Best-score persistence for the flag quiz.
//
// Store is the single-key contract the session controller depends on:
//   - Read returns the stored best score, or 0 when nothing (valid) is stored.
//   - Write persists the value synchronously.
//
// This file holds the in-memory implementation, used by tests and by runs
// with DB_PATH=:memory:. State is lost when the process restarts.

package store

import (
	"context"
	"sync"
)

// Key is the single key the best score lives under.
const Key = "flagRecord"

// Store persists the personal best score.
type Store interface {
	// Read returns the stored best score; 0 when absent or unparseable.
	Read(ctx context.Context) (int, error)

	// Write persists score.
	Write(ctx context.Context, score int) error
}

// memory is an in-memory Store implementation.
type memory struct {
	mu   sync.RWMutex // guards best
	best int
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{}
}

// Read returns the last written value.
func (m *memory) Read(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.best, nil
}

// Write replaces the stored value.
func (m *memory) Write(ctx context.Context, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.best = score
	return nil
}
