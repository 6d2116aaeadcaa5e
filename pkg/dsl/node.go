package dsl

import (
	"slices"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Say makes the node an NPC turn speaking lines in order.
func (n *NodeBuilder) Say(tag string, lines ...string) *NodeBuilder {
	n.node.Kind = domain.KindNPC
	n.node.Tag = tag
	n.node.Text = strings.Join(lines, domain.LineDelimiter)
	n.node.Options = nil
	return n
}

// Action attaches an action tag, such as domain.TagItem.
func (n *NodeBuilder) Action(tag string) *NodeBuilder {
	n.node.ExtraData = tag
	return n
}

// Go sets the follow-up node of an NPC turn.
func (n *NodeBuilder) Go(target domain.NodeID) *NodeBuilder {
	n.node.Next = target
	return n
}

// Choice makes the node a player turn and appends an option leading to target.
// Use domain.NoNode as target for an option that ends the conversation.
func (n *NodeBuilder) Choice(text string, target domain.NodeID) *NodeBuilder {
	n.node.Kind = domain.KindPlayer
	n.node.Tag = ""
	n.node.Text = ""
	n.node.Options = append(n.node.Options, domain.Option{Text: text, To: target})
	return n
}

// End marks the node as the last one of its branch.
func (n *NodeBuilder) End() *NodeBuilder {
	n.node.Next = domain.NoNode
	return n
}

// Add continues with another node of the same tree.
func (n *NodeBuilder) Add(id domain.NodeID) *NodeBuilder {
	return n.builder.Add(id)
}

// Build returns a copy of the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	node := n.node
	node.Options = slices.Clone(n.node.Options)
	return node
}
