package ports

import "github.com/aretw0/parley/pkg/domain"

// AssignmentRecord is the per-character metadata the engine reads and writes.
// The engine never owns its lifecycle.
type AssignmentRecord interface {
	Identity() string
	DisplayName() string
	TreeID() string

	InteractionCount() int
	RecordInteraction()

	OverrideStartNode() (domain.NodeID, bool)
	SetOverrideStartNode(id domain.NodeID)
	ClearOverrideStartNode()
}

// WorldState holds persistent game flags (e.g. "the player got the item").
type WorldState interface {
	Flag(name string) bool
	SetFlag(name string, value bool)
}

var _ AssignmentRecord = (*domain.Assignment)(nil)
