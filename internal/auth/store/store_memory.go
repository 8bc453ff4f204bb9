package store

import (
	"context"
	"strings"
	"sync"

	"github.com/ihiteshgupta/learnflow/internal/auth"
)

// InMemoryStore holds accounts in memory for tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]*auth.User
	byID    map[string]*auth.User
}

// NewInMemory constructs an empty in-memory user store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byEmail: make(map[string]*auth.User),
		byID:    make(map[string]*auth.User),
	}
}

func (s *InMemoryStore) Save(_ context.Context, u *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, ok := s.byEmail[email]; ok {
		return ErrAlreadyExists
	}
	copyUser := *u
	s.byEmail[email] = &copyUser
	s.byID[u.ID] = &copyUser
	return nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	copyUser := *u
	return &copyUser, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copyUser := *u
	return &copyUser, nil
}
