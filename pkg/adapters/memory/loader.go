package memory

import (
	"fmt"
	"sort"

	"github.com/aretw0/parley/pkg/domain"
)

// Loader implements ports.TreeLoader using an in-memory map.
type Loader struct {
	trees map[string]*domain.Tree
}

// NewLoader creates a new memory loader holding the given trees.
func NewLoader(trees ...*domain.Tree) *Loader {
	l := &Loader{trees: make(map[string]*domain.Tree, len(trees))}
	for _, t := range trees {
		l.trees[t.ID] = t
	}
	return l
}

// AddTree registers or replaces a tree.
func (l *Loader) AddTree(t *domain.Tree) {
	l.trees[t.ID] = t
}

// GetTree retrieves a tree by id.
func (l *Loader) GetTree(id string) (*domain.Tree, error) {
	t, ok := l.trees[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTreeNotFound, id)
	}
	return t, nil
}

// ListTrees returns all available tree ids.
func (l *Loader) ListTrees() ([]string, error) {
	keys := make([]string, 0, len(l.trees))
	for k := range l.trees {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
