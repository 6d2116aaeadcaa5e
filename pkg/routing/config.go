package routing

import (
	"fmt"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Condition is the declarative form of a predicate. All set fields must hold.
type Condition struct {
	Flag      string `mapstructure:"flag"`
	NotFlag   string `mapstructure:"not_flag"`
	MinVisits int    `mapstructure:"min_visits"`
}

// RouteConfig is the declarative form of a Route.
type RouteConfig struct {
	When Condition `mapstructure:"when"`
	Jump int       `mapstructure:"jump"`
}

// Predicate compiles the condition. An empty condition always matches.
func (c Condition) Predicate() Predicate {
	var preds []Predicate
	if c.Flag != "" {
		preds = append(preds, FlagSet(c.Flag))
	}
	if c.NotFlag != "" {
		preds = append(preds, FlagUnset(c.NotFlag))
	}
	if c.MinVisits > 0 {
		preds = append(preds, MinVisits(c.MinVisits))
	}
	if len(preds) == 0 {
		return Always()
	}
	return All(preds...)
}

// FromConfig builds a router from raw configuration, typically decoded YAML:
//
//	Crazy Cap:
//	  - when: {flag: gotItem}
//	    jump: 17
func FromConfig(raw map[string]any) (*Router, error) {
	var decoded map[string][]RouteConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &decoded,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create routing decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid routing rules: %w", err)
	}

	r := NewRouter()
	for identity, routes := range decoded {
		for i, rc := range routes {
			if rc.Jump < 0 {
				return nil, fmt.Errorf("routing rule %s[%d]: jump target must be a node id, got %d", identity, i, rc.Jump)
			}
			r.Add(identity, rc.When.Predicate(), domain.NodeID(rc.Jump))
		}
	}
	return r, nil
}
