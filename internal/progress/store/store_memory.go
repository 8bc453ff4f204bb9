package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ihiteshgupta/learnflow/internal/progress"
)

// InMemoryStore holds progress records in memory for tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*progress.UserProgress
}

// NewInMemory constructs an empty in-memory progress store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*progress.UserProgress)}
}

func (s *InMemoryStore) Get(_ context.Context, userID string) (*progress.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyProgress(p), nil
}

func (s *InMemoryStore) Save(_ context.Context, p *progress.UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[p.UserID] = copyProgress(p)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*progress.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*progress.UserProgress, 0, len(s.records))
	for _, p := range s.records {
		out = append(out, copyProgress(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func copyProgress(p *progress.UserProgress) *progress.UserProgress {
	cp := *p
	if p.LastActiveAt != nil {
		t := *p.LastActiveAt
		cp.LastActiveAt = &t
	}
	cp.Badges = append([]string(nil), p.Badges...)
	return &cp
}
