package credentialRepo

import (
	"context"
	"sync"

	"agendai/models"
)

type memoryCredentialStore struct {
	mu sync.RWMutex
	m  map[string]models.Credential
}

// NewMemoryCredentialStore returns a volatile in-process CredentialStore.
func NewMemoryCredentialStore() CredentialStore {
	return &memoryCredentialStore{m: make(map[string]models.Credential)}
}

func (s *memoryCredentialStore) Put(_ context.Context, entityID string, cred models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[entityID] = cred
	return nil
}

func (s *memoryCredentialStore) Get(_ context.Context, entityID string) (models.Credential, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.m[entityID]
	return cred, ok, nil
}
