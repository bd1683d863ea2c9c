package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is the authoritative in-process session registry: a single
// mutex-guarded map. Every operation takes the lock, mutates or reads, and
// releases it; nothing slow ever happens under the lock.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// 256-bit ids do not collide in practice; regenerate anyway rather
	// than clobber a live session.
	for {
		if _, exists := m.sessions[s.ID]; !exists {
			break
		}
		s.ID, err = GenerateID()
		if err != nil {
			return nil, err
		}
	}

	m.sessions[s.ID] = s
	return clone(s), nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

func (m *MemoryStore) MarkFulfilled(ctx context.Context, id, code string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return "", ErrNotFound
	}
	if s.Fulfilled {
		// first write wins
		return s.ResolvedCode, nil
	}

	s.Fulfilled = true
	s.ResolvedCode = code
	s.NotReady = false
	return code, nil
}

func (m *MemoryStore) MarkNotReady(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if s.Fulfilled {
		return nil
	}

	s.NotReady = true
	return nil
}

func (m *MemoryStore) SetSelection(ctx context.Context, id string, selection json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}

	s.Selection = append(json.RawMessage(nil), selection...)
	return nil
}

func (m *MemoryStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of live sessions. Intended for testing.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// clone copies a session so callers never hold a pointer into the map.
func clone(s *Session) *Session {
	c := *s
	c.Selection = append(json.RawMessage(nil), s.Selection...)
	return &c
}
