package dsl

import (
	"fmt"

	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
)

// Builder manages the tree construction.
type Builder struct {
	id    string
	name  string
	start domain.NodeID
	set   bool
	nodes map[domain.NodeID]*NodeBuilder
	order []domain.NodeID
}

// New creates a new tree builder.
func New(id string) *Builder {
	return &Builder{
		id:    id,
		nodes: make(map[domain.NodeID]*NodeBuilder),
	}
}

// Name sets the display name of the tree.
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Start sets the entry node. Defaults to the first node added.
func (b *Builder) Start(id domain.NodeID) *Builder {
	b.start = id
	b.set = true
	return b
}

// Add creates a new node in the tree.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id domain.NodeID) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:   id,
			Kind: domain.KindNPC,
			Next: domain.NoNode,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Tree compiles and validates the tree.
func (b *Builder) Tree() (*domain.Tree, error) {
	if len(b.order) == 0 {
		return nil, fmt.Errorf("tree %q has no nodes", b.id)
	}

	start := b.order[0]
	if b.set {
		start = b.start
	}

	nodes := make([]*domain.Node, 0, len(b.order))
	for _, id := range b.order {
		n := b.nodes[id].Build()
		nodes = append(nodes, &n)
	}

	t := domain.NewTree(b.id, start, nodes...)
	t.Name = b.name
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Build compiles the tree into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	t, err := b.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return memory.NewLoader(t), nil
}
