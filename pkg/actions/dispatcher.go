// Package actions resolves node action tags (extraData) into side effects.
package actions

import (
	"io"
	"log/slog"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/registry"
)

// Dispatcher maps a node's tag to its registered behavior.
type Dispatcher struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets a structured logger for dispatch decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher over reg. A nil registry behaves as empty.
func NewDispatcher(reg *registry.Registry, opts ...Option) *Dispatcher {
	if reg == nil {
		reg = registry.NewRegistry()
	}
	d := &Dispatcher{
		registry: reg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry exposes the underlying registry for additional registrations.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Dispatch runs the handler registered for c.Tag.
// Unknown tags are no-ops: the line is revealed and advanced normally.
func (d *Dispatcher) Dispatch(c registry.Context) domain.Outcome {
	if c.Tag == "" {
		return domain.Outcome{}
	}
	fn, ok := d.registry.Handler(c.Tag)
	if !ok {
		d.logger.Debug("unknown action tag", "tag", c.Tag, "node", c.NodeID)
		return domain.Outcome{}
	}
	out := fn(c)
	d.logger.Debug("action dispatched",
		"tag", c.Tag,
		"node", c.NodeID,
		"line", c.LineIndex,
		"pause", out.Pause,
		"auto_advance", out.AdvancesAutomatically,
	)
	return out
}

// Substitute rewrites line with the substitution registered for c.Tag, if any.
func (d *Dispatcher) Substitute(c registry.Context, line string) string {
	if c.Tag == "" {
		return line
	}
	fn, ok := d.registry.Substitution(c.Tag)
	if !ok {
		return line
	}
	return fn(c, line)
}
