package ports

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
)

// DialogueStore is the engine's view of authored content.
type DialogueStore interface {
	// LoadFirstNode returns the entry node of the assignment's tree.
	LoadFirstNode(a AssignmentRecord) (domain.NodeData, error)

	// LoadNode returns the node with the given id.
	LoadNode(a AssignmentRecord, id domain.NodeID) (domain.NodeData, error)

	// LoadNext follows the edge out of currentID. chosen is the committed option
	// index on player nodes and ignored on NPC nodes.
	// Returns domain.ErrEndOfTree when the edge leaves the tree.
	LoadNext(a AssignmentRecord, currentID domain.NodeID, chosen int) (domain.NodeData, error)
}

// TreeLoader defines how authored trees are retrieved.
// This allows the storage layer (Loam, YAML files, memory) to be decoupled.
type TreeLoader interface {
	// GetTree loads a whole tree by id. Returns domain.ErrTreeNotFound if missing.
	GetTree(id string) (*domain.Tree, error)

	// ListTrees returns the ids of every tree, sorted.
	ListTrees() ([]string, error)
}

// AssignmentStore persists assignment records between play sessions.
type AssignmentStore interface {
	// Load returns domain.ErrAssignmentNotFound for unknown identities.
	Load(ctx context.Context, identity string) (*domain.Assignment, error)
	Save(ctx context.Context, a *domain.Assignment) error
}
