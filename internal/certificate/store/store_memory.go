package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ihiteshgupta/learnflow/internal/certificate"
)

// InMemoryStore holds certifications in memory for tests and local runs.
type InMemoryStore struct {
	mu    sync.RWMutex
	certs map[string]*certificate.Certification
}

// NewInMemory constructs an empty in-memory certificate store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{certs: make(map[string]*certificate.Certification)}
}

func (s *InMemoryStore) Save(_ context.Context, cert *certificate.Certification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copyCert := *cert
	s.certs[cert.CredentialID] = &copyCert
	return nil
}

func (s *InMemoryStore) FindByCredentialID(_ context.Context, credentialID string) (*certificate.Certification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cert, ok := s.certs[credentialID]
	if !ok {
		return nil, ErrNotFound
	}
	copyCert := *cert
	return &copyCert, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string) ([]*certificate.Certification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*certificate.Certification
	for _, cert := range s.certs {
		if cert.UserID != userID {
			continue
		}
		copyCert := *cert
		out = append(out, &copyCert)
	}
	// Newest first, stable for equal timestamps.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IssuedAt.After(out[j].IssuedAt)
	})
	return out, nil
}
