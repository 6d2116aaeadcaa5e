package dialogue

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// TreeDocument is the authored, serialized form of a dialogue tree.
// It is shared by the file and loam loaders.
type TreeDocument struct {
	ID    string         `yaml:"id,omitempty" json:"id,omitempty" mapstructure:"id"`
	Name  string         `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Start *int           `yaml:"start,omitempty" json:"start,omitempty" mapstructure:"start"`
	Nodes []NodeDocument `yaml:"nodes" json:"nodes" mapstructure:"nodes"`
}

// NodeDocument is one authored node.
// A missing next means the node ends the conversation.
type NodeDocument struct {
	ID        int              `yaml:"id" json:"id" mapstructure:"id"`
	Kind      string           `yaml:"kind,omitempty" json:"kind,omitempty" mapstructure:"kind"`
	Tag       string           `yaml:"tag,omitempty" json:"tag,omitempty" mapstructure:"tag"`
	Text      string           `yaml:"text,omitempty" json:"text,omitempty" mapstructure:"text"`
	ExtraData string           `yaml:"extra_data,omitempty" json:"extra_data,omitempty" mapstructure:"extra_data"`
	Next      *int             `yaml:"next,omitempty" json:"next,omitempty" mapstructure:"next"`
	Options   []OptionDocument `yaml:"options,omitempty" json:"options,omitempty" mapstructure:"options"`
}

// OptionDocument is one player choice. A missing to ends the conversation.
type OptionDocument struct {
	Text string `yaml:"text" json:"text" mapstructure:"text"`
	To   *int   `yaml:"to,omitempty" json:"to,omitempty" mapstructure:"to"`
}

// DecodeDocument decodes loosely typed metadata (frontmatter, JSON) into a TreeDocument.
// Numbers may arrive as strings, floats or json.Number.
func DecodeDocument(raw map[string]any) (TreeDocument, error) {
	var doc TreeDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       jsonNumberHook,
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return doc, err
	}
	if err := decoder.Decode(raw); err != nil {
		return doc, fmt.Errorf("invalid tree document: %w", err)
	}
	return doc, nil
}

func jsonNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	n, ok := data.(json.Number)
	if !ok {
		return data, nil
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	return strconv.ParseFloat(string(n), 64)
}

// Tree converts the document into a domain tree with the given id.
// The document id, when present, wins over the one passed in.
// Without an explicit start, the first listed node starts the tree.
func (d TreeDocument) Tree(id string) (*domain.Tree, error) {
	if d.ID != "" {
		id = d.ID
	}
	if len(d.Nodes) == 0 {
		return nil, fmt.Errorf("tree %q has no nodes", id)
	}

	start := domain.NodeID(d.Nodes[0].ID)
	if d.Start != nil {
		start = domain.NodeID(*d.Start)
	}

	nodes := make([]*domain.Node, 0, len(d.Nodes))
	seen := make(map[int]bool, len(d.Nodes))
	for _, nd := range d.Nodes {
		if seen[nd.ID] {
			return nil, fmt.Errorf("tree %q: duplicate node id %d", id, nd.ID)
		}
		seen[nd.ID] = true
		nodes = append(nodes, nd.node())
	}

	t := domain.NewTree(id, start, nodes...)
	t.Name = d.Name
	return t, nil
}

func (nd NodeDocument) node() *domain.Node {
	kind := domain.NodeKind(nd.Kind)
	if kind == "" {
		kind = domain.KindNPC
		if len(nd.Options) > 0 {
			kind = domain.KindPlayer
		}
	}

	n := &domain.Node{
		ID:        domain.NodeID(nd.ID),
		Kind:      kind,
		Tag:       nd.Tag,
		Text:      nd.Text,
		ExtraData: nd.ExtraData,
		Next:      target(nd.Next),
	}
	for _, o := range nd.Options {
		n.Options = append(n.Options, domain.Option{Text: o.Text, To: target(o.To)})
	}
	return n
}

// NewDocument is the inverse of TreeDocument.Tree, used when exporting.
func NewDocument(t *domain.Tree) TreeDocument {
	start := int(t.Start)
	doc := TreeDocument{ID: t.ID, Name: t.Name, Start: &start}
	for _, id := range t.IDs() {
		n := t.Nodes[id]
		nd := NodeDocument{
			ID:        int(n.ID),
			Kind:      string(n.Kind),
			Tag:       n.Tag,
			Text:      n.Text,
			ExtraData: n.ExtraData,
			Next:      ref(n.Next),
		}
		for _, o := range n.Options {
			nd.Options = append(nd.Options, OptionDocument{Text: o.Text, To: ref(o.To)})
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	return doc
}

func target(p *int) domain.NodeID {
	if p == nil {
		return domain.NoNode
	}
	return domain.NodeID(*p)
}

func ref(id domain.NodeID) *int {
	if id == domain.NoNode {
		return nil
	}
	v := int(id)
	return &v
}
