// internal/store/store.go
//
// In-memory implementation of the game.Store snapshot port. The ledger
// writes a snapshot after every committed mutation and reads one snapshot
// at startup; implementations must treat "nothing saved yet" as a nil
// state, not an error.
//
// Characteristics of the memory implementation:
//   - Holds a single current-session snapshot guarded by an RWMutex.
//   - Deep-copies on both Save and Load so callers never alias the stored
//     state.
//   - State is lost when the process restarts; used in tests and when no
//     database path is configured.

package store

import (
	"context"
	"sync"

	"github.com/lexiscore/go-server/internal/game"
)

type memory struct {
	mu    sync.RWMutex
	state *game.State
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore() game.Store {
	return &memory{}
}

func (m *memory) Save(ctx context.Context, s *game.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s.Clone()
	return nil
}

func (m *memory) Load(ctx context.Context) (*game.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return nil, nil
	}
	return m.state.Clone(), nil
}
