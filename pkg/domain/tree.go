package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Tree is an authored dialogue: an arena of nodes addressed by stable integer id.
// Edges are plain ids, so cycles (repeat visits, jumps) never create ownership loops.
type Tree struct {
	ID    string
	Name  string
	Start NodeID
	Nodes map[NodeID]*Node
}

// NewTree builds a tree from a list of nodes.
func NewTree(id string, start NodeID, nodes ...*Node) *Tree {
	t := &Tree{
		ID:    id,
		Start: start,
		Nodes: make(map[NodeID]*Node, len(nodes)),
	}
	for _, n := range nodes {
		t.Nodes[n.ID] = n
	}
	return t
}

// Node looks up a node by id.
func (t *Tree) Node(id NodeID) (*Node, error) {
	n, ok := t.Nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d in tree %q", ErrNodeNotFound, id, t.ID)
	}
	return n, nil
}

// IDs returns every node id in ascending order.
func (t *Tree) IDs() []NodeID {
	ids := make([]NodeID, 0, len(t.Nodes))
	for id := range t.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Edges returns the outgoing node ids of n, skipping NoNode.
func (n *Node) Edges() []NodeID {
	var out []NodeID
	if n.IsPlayer() {
		for _, o := range n.Options {
			if o.To != NoNode {
				out = append(out, o.To)
			}
		}
		return out
	}
	if n.Next != NoNode {
		out = append(out, n.Next)
	}
	return out
}

// ValidationError aggregates the problems found in a tree.
type ValidationError struct {
	TreeID string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tree %q has %d issue(s):\n- %s", e.TreeID, len(e.Issues), strings.Join(e.Issues, "\n- "))
}

// Validate checks structural integrity: start node, dangling edges, empty nodes.
// Unreachable nodes are reported through Unreachable, not as errors, since
// jump targets (routing, overrides) are only reachable from outside the tree.
func (t *Tree) Validate() error {
	var issues []string

	if _, ok := t.Nodes[t.Start]; !ok {
		issues = append(issues, fmt.Sprintf("start node %d does not exist", t.Start))
	}

	for _, id := range t.IDs() {
		n := t.Nodes[id]
		switch n.Kind {
		case KindNPC:
			if len(n.Lines()) == 0 {
				issues = append(issues, fmt.Sprintf("npc node %d has no text", id))
			}
		case KindPlayer:
			if len(n.Options) == 0 {
				issues = append(issues, fmt.Sprintf("player node %d has no options", id))
			}
		default:
			issues = append(issues, fmt.Sprintf("node %d has unknown kind %q", id, n.Kind))
		}
		for _, to := range n.Edges() {
			if _, ok := t.Nodes[to]; !ok {
				issues = append(issues, fmt.Sprintf("node %d points to missing node %d", id, to))
			}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{TreeID: t.ID, Issues: issues}
	}
	return nil
}

// Unreachable lists nodes that cannot be reached from Start by following edges.
func (t *Tree) Unreachable() []NodeID {
	visited := make(map[NodeID]bool)
	queue := []NodeID{t.Start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		n, ok := t.Nodes[id]
		if !ok {
			continue
		}
		visited[id] = true
		queue = append(queue, n.Edges()...)
	}

	var out []NodeID
	for _, id := range t.IDs() {
		if !visited[id] {
			out = append(out, id)
		}
	}
	return out
}
