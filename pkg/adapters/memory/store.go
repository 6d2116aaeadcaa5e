package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/parley/pkg/domain"
)

// AssignmentStore implements ports.AssignmentStore in memory.
// Safe for concurrent use.
type AssignmentStore struct {
	data map[string]domain.Assignment
	mu   sync.RWMutex
}

// NewAssignmentStore creates a new in-memory assignment store.
func NewAssignmentStore() *AssignmentStore {
	return &AssignmentStore{
		data: make(map[string]domain.Assignment),
	}
}

// Save stores a copy of the record, keyed by identity.
func (s *AssignmentStore) Save(ctx context.Context, a *domain.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[a.Identity()] = *a
	return nil
}

// Load returns a copy so callers can't mutate the stored record by pointer.
func (s *AssignmentStore) Load(ctx context.Context, identity string) (*domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.data[identity]
	if !ok {
		return nil, domain.ErrAssignmentNotFound
	}
	return &a, nil
}

// List returns every stored identity.
func (s *AssignmentStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// World implements ports.WorldState with a plain map.
type World struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewWorld creates an empty flag set.
func NewWorld() *World {
	return &World{flags: make(map[string]bool)}
}

func (w *World) Flag(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.flags[name]
}

func (w *World) SetFlag(name string, value bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !value {
		delete(w.flags, name)
		return
	}
	w.flags[name] = true
}
