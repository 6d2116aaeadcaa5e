// Package dialogue serves NodeData snapshots from authored trees.
//
// Store implements ports.DialogueStore on top of any ports.TreeLoader, caching
// each tree after its first load.
package dialogue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
)

// Store resolves nodes for assignments.
type Store struct {
	loader ports.TreeLoader
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]*domain.Tree
}

// Option defines a functional option for configuring the Store.
type Option func(*Store)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a store backed by loader.
func NewStore(loader ports.TreeLoader, opts ...Option) *Store {
	s := &Store{
		loader: loader,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:  make(map[string]*domain.Tree),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tree returns the (cached) tree with the given id.
func (s *Store) Tree(id string) (*domain.Tree, error) {
	s.mu.RLock()
	t, ok := s.cache[id]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := s.loader.GetTree(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[id] = t
	s.mu.Unlock()
	s.logger.Debug("tree loaded", "tree", id, "nodes", len(t.Nodes))
	return t, nil
}

// Invalidate drops a cached tree so the next access reloads it.
// An empty id drops every tree.
func (s *Store) Invalidate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.cache = make(map[string]*domain.Tree)
		return
	}
	delete(s.cache, id)
}

// Follow invalidates every tree id received on changes until the channel
// closes or ctx is done. It blocks; run it in its own goroutine.
func (s *Store) Follow(ctx context.Context, changes <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-changes:
			if !ok {
				return
			}
			s.logger.Info("tree changed, reloading on next use", "tree", id)
			s.Invalidate(id)
		}
	}
}

// LoadFirstNode returns the tree's start node.
func (s *Store) LoadFirstNode(a ports.AssignmentRecord) (domain.NodeData, error) {
	t, err := s.treeFor(a)
	if err != nil {
		return domain.NodeData{}, err
	}
	return s.snapshot(t, t.Start)
}

// LoadNode returns the node with the given id.
func (s *Store) LoadNode(a ports.AssignmentRecord, id domain.NodeID) (domain.NodeData, error) {
	t, err := s.treeFor(a)
	if err != nil {
		return domain.NodeData{}, err
	}
	return s.snapshot(t, id)
}

// LoadNext follows the outgoing edge of currentID.
// On player nodes the edge is chosen by option index, clamped into range.
func (s *Store) LoadNext(a ports.AssignmentRecord, currentID domain.NodeID, chosen int) (domain.NodeData, error) {
	t, err := s.treeFor(a)
	if err != nil {
		return domain.NodeData{}, err
	}
	current, err := t.Node(currentID)
	if err != nil {
		return domain.NodeData{}, err
	}

	next := current.Next
	if current.IsPlayer() {
		if len(current.Options) == 0 {
			return domain.NodeData{}, domain.ErrEndOfTree
		}
		chosen = max(0, min(chosen, len(current.Options)-1))
		next = current.Options[chosen].To
	}
	if next == domain.NoNode {
		return domain.NodeData{}, domain.ErrEndOfTree
	}
	return s.snapshot(t, next)
}

func (s *Store) treeFor(a ports.AssignmentRecord) (*domain.Tree, error) {
	if a == nil || a.TreeID() == "" {
		return nil, domain.ErrNoTreeAssigned
	}
	return s.Tree(a.TreeID())
}

func (s *Store) snapshot(t *domain.Tree, id domain.NodeID) (domain.NodeData, error) {
	n, err := t.Node(id)
	if err != nil {
		return domain.NodeData{}, fmt.Errorf("failed to load node: %w", err)
	}
	return domain.NewNodeData(n), nil
}
