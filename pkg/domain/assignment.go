package domain

// Assignment ties a character to a dialogue tree and remembers how often the
// conversation has been begun. It is the default ports.AssignmentRecord.
type Assignment struct {
	Name     string `json:"name" yaml:"name" mapstructure:"name"`
	Display  string `json:"display,omitempty" yaml:"display,omitempty" mapstructure:"display"`
	Tree     string `json:"tree" yaml:"tree" mapstructure:"tree"`
	Count    int    `json:"interaction_count" yaml:"interaction_count" mapstructure:"interaction_count"`
	Override NodeID `json:"override_start_node" yaml:"override_start_node" mapstructure:"override_start_node"`
}

// NewAssignment creates a record with no start override.
func NewAssignment(name, tree string) *Assignment {
	return &Assignment{Name: name, Tree: tree, Override: NoNode}
}

// Identity is the dialogue name used by repeat-visit routing.
func (a *Assignment) Identity() string { return a.Name }

// DisplayName is substituted into name placeholders. Falls back to Identity.
func (a *Assignment) DisplayName() string {
	if a.Display != "" {
		return a.Display
	}
	return a.Name
}

// TreeID is the dialogue tree the character speaks from.
func (a *Assignment) TreeID() string { return a.Tree }

func (a *Assignment) InteractionCount() int { return a.Count }

// RecordInteraction counts one more begun conversation.
func (a *Assignment) RecordInteraction() { a.Count++ }

// OverrideStartNode returns the forced entry point, if any.
func (a *Assignment) OverrideStartNode() (NodeID, bool) {
	return a.Override, a.Override != NoNode
}

func (a *Assignment) SetOverrideStartNode(id NodeID) { a.Override = id }

func (a *Assignment) ClearOverrideStartNode() { a.Override = NoNode }
