package session

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps session records in process memory. Used by tests and
// DB-less local runs.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]State
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]State)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (State, error) {
	if strings.TrimSpace(sessionID) == "" {
		return State{}, ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return State{}, ErrStateNotFound
	}
	return st, nil
}

func (s *MemoryStore) Save(_ context.Context, st State) error {
	if strings.TrimSpace(st.SessionID) == "" {
		return ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[st.SessionID] = st
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}
