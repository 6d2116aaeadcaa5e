// Package routing decides where a repeat conversation begins.
//
// Rules are keyed by the assignment's identity and evaluated in order; the
// first rule whose predicate holds supplies the jump target. Rules only apply
// to characters that have been talked to before.
package routing

import (
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
)

// Predicate inspects world state and the assignment record.
type Predicate func(world ports.WorldState, a ports.AssignmentRecord) bool

// Route is one (predicate, target) pair.
type Route struct {
	When   Predicate
	Target domain.NodeID
}

// Router maps identities to their ordered routes.
type Router struct {
	rules map[string][]Route
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{rules: make(map[string][]Route)}
}

// Add appends a route for identity.
func (r *Router) Add(identity string, when Predicate, target domain.NodeID) *Router {
	r.rules[identity] = append(r.rules[identity], Route{When: when, Target: target})
	return r
}

// Routes returns the routes registered for identity.
func (r *Router) Routes(identity string) []Route {
	return r.rules[identity]
}

// Resolve returns the target of the first matching route.
// It never matches a character with no previous interactions.
func (r *Router) Resolve(world ports.WorldState, a ports.AssignmentRecord) (domain.NodeID, bool) {
	if r == nil || a == nil || a.InteractionCount() == 0 {
		return domain.NoNode, false
	}
	for _, route := range r.rules[a.Identity()] {
		if route.When == nil || route.When(world, a) {
			return route.Target, true
		}
	}
	return domain.NoNode, false
}

// Always matches unconditionally.
func Always() Predicate {
	return func(ports.WorldState, ports.AssignmentRecord) bool { return true }
}

// FlagSet matches when the world flag is set.
func FlagSet(name string) Predicate {
	return func(w ports.WorldState, _ ports.AssignmentRecord) bool {
		return w != nil && w.Flag(name)
	}
}

// FlagUnset matches when the world flag is not set.
func FlagUnset(name string) Predicate {
	return func(w ports.WorldState, _ ports.AssignmentRecord) bool {
		return w == nil || !w.Flag(name)
	}
}

// MinVisits matches once the conversation has been begun at least n times.
func MinVisits(n int) Predicate {
	return func(_ ports.WorldState, a ports.AssignmentRecord) bool {
		return a.InteractionCount() >= n
	}
}

// All matches when every predicate matches.
func All(preds ...Predicate) Predicate {
	return func(w ports.WorldState, a ports.AssignmentRecord) bool {
		for _, p := range preds {
			if !p(w, a) {
				return false
			}
		}
		return true
	}
}
