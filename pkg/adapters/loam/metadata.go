package loam

// TreeMetadata is the frontmatter of a dialogue tree document.
// Nodes stay loosely typed here and are decoded by dialogue.DecodeDocument,
// since frontmatter numbers may arrive as json.Number or float64.
type TreeMetadata struct {
	ID    string           `json:"id" mapstructure:"id"`
	Name  string           `json:"name" mapstructure:"name"`
	Start any              `json:"start" mapstructure:"start"`
	Nodes []map[string]any `json:"nodes" mapstructure:"nodes"`
}

func (m TreeMetadata) raw() map[string]any {
	raw := map[string]any{
		"id":   m.ID,
		"name": m.Name,
	}
	if m.Start != nil {
		raw["start"] = m.Start
	}
	nodes := make([]any, len(m.Nodes))
	for i, n := range m.Nodes {
		nodes[i] = n
	}
	raw["nodes"] = nodes
	return raw
}
