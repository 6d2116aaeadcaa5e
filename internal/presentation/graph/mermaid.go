package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

// Overlay contains conversation state to visualize on the graph.
type Overlay struct {
	Visited []domain.NodeID
	Current domain.NodeID
	// HasCurrent distinguishes node 0 from no current node.
	HasCurrent bool
}

const endID = "exit"

// GenerateMermaid produces a Mermaid flowchart of a dialogue tree.
// Shapes:
// - Start: ((Circle))
// - Action (extra data): [[Subroutine]]
// - Player choice: [/Parallelogram/]
// - NPC line: [Rectangle]
// Edges leaving the tree point at a shared end node.
func GenerateMermaid(t *domain.Tree, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	hasEnd := false
	for _, id := range t.IDs() {
		n := t.Nodes[id]
		sid := nodeID(id)

		opener, closer := "[", "]"
		switch {
		case id == t.Start:
			opener, closer = "((", "))"
		case n.IsPlayer():
			opener, closer = "[/", "/]"
		case n.ExtraData != "":
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sid, opener, label(n), closer)

		if n.IsPlayer() {
			for _, o := range n.Options {
				to := endID
				if o.To != domain.NoNode {
					to = nodeID(o.To)
				} else {
					hasEnd = true
				}
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", sid, escape(o.Text), to)
			}
			continue
		}

		if n.Next == domain.NoNode {
			hasEnd = true
			fmt.Fprintf(&sb, "    %s --> %s\n", sid, endID)
			continue
		}
		fmt.Fprintf(&sb, "    %s --> %s\n", sid, nodeID(n.Next))
	}

	if hasEnd {
		fmt.Fprintf(&sb, "    %s((\"end\"))\n", endID)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.NodeID]bool)
		for _, id := range overlay.Visited {
			if seen[id] || t.Nodes[id] == nil {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(id))
		}
		if overlay.HasCurrent {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.Current))
		}
	}

	return sb.String()
}

func nodeID(id domain.NodeID) string {
	return fmt.Sprintf("n%d", id)
}

// label is "<id>: <speaker>" for NPC nodes, "<id>: player" for choices,
// with the action tag appended when present.
func label(n *domain.Node) string {
	who := n.Tag
	if n.IsPlayer() {
		who = "player"
	}
	s := fmt.Sprintf("%d", n.ID)
	if who != "" {
		s += ": " + escape(who)
	}
	if n.ExtraData != "" {
		s += " <br/> " + escape(n.ExtraData)
	}
	return s
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
