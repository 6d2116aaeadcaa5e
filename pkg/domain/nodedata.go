package domain

// NodeData is the snapshot describing the active position of a conversation.
// The engine replaces it wholesale on every step; presenters treat it as read-only.
type NodeData struct {
	NodeID       NodeID
	IsPlayerTurn bool

	// IsEnd is terminal: traversal tried to leave the tree.
	IsEnd bool

	// SpeakerTag labels the NPC line. Empty on player turns.
	SpeakerTag string

	NPCLines        []string
	ActiveLineIndex int

	PlayerOptions  []string
	SelectedOption int

	// ExtraData is the action tag attached to the node.
	ExtraData string

	// ActionPaused suspends advancement until the pause is acknowledged.
	ActionPaused bool

	// Revision increases every time the engine loads a node, so presenters can
	// tell a fresh option list from the one already on screen.
	Revision uint64
}

// EndNodeData is the snapshot produced when a conversation runs off the tree.
func EndNodeData() NodeData {
	return NodeData{NodeID: NoNode, IsEnd: true}
}

// NewNodeData builds the snapshot for entering n.
func NewNodeData(n *Node) NodeData {
	data := NodeData{
		NodeID:       n.ID,
		IsPlayerTurn: n.IsPlayer(),
		ExtraData:    n.ExtraData,
	}
	if n.IsPlayer() {
		data.PlayerOptions = n.OptionTexts()
	} else {
		data.SpeakerTag = n.Tag
		data.NPCLines = n.Lines()
	}
	return data
}

// ActiveLine returns the NPC line currently displayed, or "" on player turns.
func (d NodeData) ActiveLine() string {
	if d.IsPlayerTurn || d.ActiveLineIndex < 0 || d.ActiveLineIndex >= len(d.NPCLines) {
		return ""
	}
	return d.NPCLines[d.ActiveLineIndex]
}

// HasMoreLines reports whether an NPC node still has unread lines after the active one.
func (d NodeData) HasMoreLines() bool {
	return !d.IsPlayerTurn && d.ActiveLineIndex+1 < len(d.NPCLines)
}

// Clone returns a deep copy so callers cannot alias the engine's slices.
func (d NodeData) Clone() NodeData {
	c := d
	if d.NPCLines != nil {
		c.NPCLines = append([]string(nil), d.NPCLines...)
	}
	if d.PlayerOptions != nil {
		c.PlayerOptions = append([]string(nil), d.PlayerOptions...)
	}
	return c
}
