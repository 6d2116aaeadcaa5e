package domain

import "strings"

// NodeID addresses a node inside a Tree.
type NodeID int

// NoNode marks the absence of a node (no outgoing edge, no override).
const NoNode NodeID = -1

// LineDelimiter splits the authored text of an NPC node into separate lines.
const LineDelimiter = "<br>"

// NodeKind tells whose turn a node belongs to.
type NodeKind string

const (
	// KindNPC nodes hold one or more lines spoken by the NPC.
	KindNPC NodeKind = "npc"
	// KindPlayer nodes hold the replies the player can choose from.
	KindPlayer NodeKind = "player"
)

// Option is a selectable player reply and the node it leads to.
type Option struct {
	Text string `json:"text"`
	To   NodeID `json:"to"`
}

// Node is one unit of authored conversation content.
type Node struct {
	ID   NodeID   `json:"id"`
	Kind NodeKind `json:"kind"`

	// Tag is the speaker label shown for NPC lines.
	Tag string `json:"tag,omitempty"`

	// Text holds the NPC lines joined by LineDelimiter.
	Text string `json:"text,omitempty"`

	// ExtraData selects an action handler. Empty means none.
	ExtraData string `json:"extra_data,omitempty"`

	// Next is the follow-up node of an NPC node (NoNode ends the tree).
	Next NodeID `json:"next"`

	Options []Option `json:"options,omitempty"`
}

// IsPlayer reports whether the node is a player turn.
func (n *Node) IsPlayer() bool {
	return n.Kind == KindPlayer
}

// Lines splits Text on LineDelimiter, trimming surrounding whitespace.
func (n *Node) Lines() []string {
	if n.Text == "" {
		return nil
	}
	parts := strings.Split(n.Text, LineDelimiter)
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, strings.TrimSpace(p))
	}
	return lines
}

// OptionTexts returns the display text of every option, in order.
func (n *Node) OptionTexts() []string {
	texts := make([]string, len(n.Options))
	for i, o := range n.Options {
		texts[i] = o.Text
	}
	return texts
}
