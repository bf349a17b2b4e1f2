package sessionRepo

import (
	"context"
	"sync"

	"agendai/models"
)

type memorySessionStore struct {
	mu sync.Mutex
	m  map[string]models.Session
}

// NewMemorySessionStore returns a volatile in-process SessionStore.
// Sessions live for the lifetime of the process and are lost on
// restart.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{m: make(map[string]models.Session)}
}

func (s *memorySessionStore) Get(_ context.Context, senderID string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[senderID]
	if !ok {
		sess = models.NewSession()
		s.m[senderID] = sess
	}
	return sess, nil
}

func (s *memorySessionStore) Set(_ context.Context, senderID string, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[senderID] = sess
	return nil
}

func (s *memorySessionStore) Reset(_ context.Context, senderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, senderID)
	return nil
}
