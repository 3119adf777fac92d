package session

import (
	"context"
	"sync"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
)

// MemoryStore keeps state in process. Suited to tests and single-node
// deployments; state does not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]model.State
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]model.State)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (model.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]
	if !ok {
		return model.State{}, nil
	}
	return state.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, userID string, state model.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[userID] = state.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, userID)
	return nil
}
