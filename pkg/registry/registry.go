package registry

import (
	"sort"
	"sync"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
)

// Context is what an action sees when its tag is dispatched.
type Context struct {
	Tag        string
	NodeID     domain.NodeID
	LineIndex  int
	Assignment ports.AssignmentRecord
	World      ports.WorldState
}

// HandlerFunc implements the pause/advance contract of an action tag.
type HandlerFunc func(c Context) domain.Outcome

// SubstituteFunc rewrites the active line before it is revealed.
// Implementations must be idempotent: applying them twice yields the same text.
type SubstituteFunc func(c Context, line string) string

// Registry manages the available action tags.
type Registry struct {
	mu           sync.RWMutex
	handlers     map[string]HandlerFunc
	substituters map[string]SubstituteFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers:     make(map[string]HandlerFunc),
		substituters: make(map[string]SubstituteFunc),
	}
}

// Register adds a handler for tag.
// If a handler with the same tag exists, it is overwritten.
func (r *Registry) Register(tag string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[tag] = fn
}

// RegisterSubstitution adds a text substitution for tag.
func (r *Registry) RegisterSubstitution(tag string, fn SubstituteFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.substituters[tag] = fn
}

// Handler looks up the handler for tag.
func (r *Registry) Handler(tag string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.handlers[tag]
	return fn, ok
}

// Substitution looks up the substitution for tag.
func (r *Registry) Substitution(tag string) (SubstituteFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.substituters[tag]
	return fn, ok
}

// Tags lists every registered tag, sorted.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(r.handlers)+len(r.substituters))
	for tag := range r.handlers {
		seen[tag] = true
	}
	for tag := range r.substituters {
		seen[tag] = true
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
