package actions

import (
	"strings"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/registry"
)

// Defaults configures the built-in actions.
type Defaults struct {
	// ItemFlag is the world flag set when the item action hands over its item.
	ItemFlag string `yaml:"item_flag" mapstructure:"item_flag"`
	// InsanityStartNode is the start node forced on future conversations by the insanity action.
	// Nil means DefaultInsanityStartNode; node 0 is a valid choice.
	InsanityStartNode *domain.NodeID `yaml:"insanity_start_node" mapstructure:"insanity_start_node"`
}

// DefaultItemFlag is the world flag the item action sets when ItemFlag is empty.
const DefaultItemFlag = "gotItem"

// DefaultInsanityStartNode is used when InsanityStartNode is unset.
const DefaultInsanityStartNode domain.NodeID = 16

// RegisterDefaults installs the item, insanity and itemLookUp actions.
func RegisterDefaults(reg *registry.Registry, cfg Defaults) {
	if cfg.ItemFlag == "" {
		cfg.ItemFlag = DefaultItemFlag
	}
	insanity := DefaultInsanityStartNode
	if cfg.InsanityStartNode != nil {
		insanity = *cfg.InsanityStartNode
	}

	reg.Register(domain.TagItem, Item(cfg.ItemFlag))
	reg.Register(domain.TagInsanity, Insanity(insanity))
	reg.RegisterSubstitution(domain.TagItemLookUp, NameLookUp(domain.NamePlaceholder))
}

// Item pauses on the first line of its node and records the item in the world.
// Any later line advances on its own.
func Item(flag string) registry.HandlerFunc {
	return func(c registry.Context) domain.Outcome {
		if c.LineIndex != 0 {
			return domain.Outcome{AdvancesAutomatically: true}
		}
		if c.World != nil && !c.World.Flag(flag) {
			c.World.SetFlag(flag, true)
		}
		return domain.Outcome{Pause: true}
	}
}

// Insanity makes every future conversation with the character begin at startNode.
func Insanity(startNode domain.NodeID) registry.HandlerFunc {
	return func(c registry.Context) domain.Outcome {
		if c.Assignment != nil {
			c.Assignment.SetOverrideStartNode(startNode)
		}
		return domain.Outcome{AdvancesAutomatically: true}
	}
}

// NameLookUp replaces placeholder with the character's display name.
func NameLookUp(placeholder string) registry.SubstituteFunc {
	return func(c registry.Context, line string) string {
		if c.Assignment == nil {
			return line
		}
		return strings.ReplaceAll(line, placeholder, c.Assignment.DisplayName())
	}
}
