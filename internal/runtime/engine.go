package runtime

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/parley/pkg/actions"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/aretw0/parley/pkg/registry"
	"github.com/aretw0/parley/pkg/reveal"
	"github.com/aretw0/parley/pkg/routing"
)

// Engine is the conversation state machine.
// It owns the current NodeData and walks the edges authored in the dialogue store.
// Not safe for concurrent use: it is driven from a single frame loop.
type Engine struct {
	store      ports.DialogueStore
	dispatcher *actions.Dispatcher
	router     *routing.Router
	world      ports.WorldState
	reveal     *reveal.Scheduler
	hooks      domain.LifecycleHooks
	baseLogger *slog.Logger
	logger     *slog.Logger

	active         bool
	assignment     ports.AssignmentRecord
	data           domain.NodeData
	acknowledged   bool
	conversationID string
	revision       uint64
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.baseLogger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithDispatcher sets the action dispatcher. The default has the built-in actions.
func WithDispatcher(d *actions.Dispatcher) EngineOption {
	return func(e *Engine) {
		if d != nil {
			e.dispatcher = d
		}
	}
}

// WithRouter sets the repeat-visit routing rules.
func WithRouter(r *routing.Router) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.router = r
		}
	}
}

// WithWorld sets the world flags consulted by actions and routing.
func WithWorld(w ports.WorldState) EngineOption {
	return func(e *Engine) {
		if w != nil {
			e.world = w
		}
	}
}

// WithRevealDelay sets the per-character reveal interval.
func WithRevealDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.reveal = reveal.New(d)
	}
}

// NewEngine creates an idle engine reading nodes from store.
func NewEngine(store ports.DialogueStore, opts ...EngineOption) *Engine {
	e := &Engine{
		store:      store,
		router:     routing.NewRouter(),
		world:      memory.NewWorld(),
		reveal:     reveal.New(reveal.DefaultDelay),
		baseLogger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dispatcher == nil {
		reg := registry.NewRegistry()
		actions.RegisterDefaults(reg, actions.Defaults{})
		e.dispatcher = actions.NewDispatcher(reg, actions.WithLogger(e.baseLogger))
	}
	e.logger = e.baseLogger
	return e
}

// Active reports whether a conversation is loaded (including one that just reached its end).
func (e *Engine) Active() bool {
	return e.active
}

// Current returns a copy of the active NodeData. Zero value when idle.
func (e *Engine) Current() domain.NodeData {
	return e.data.Clone()
}

// Assignment returns the record of the active conversation, or nil when idle.
func (e *Engine) Assignment() ports.AssignmentRecord {
	return e.assignment
}

// ConversationID identifies the active conversation in logs and events.
func (e *Engine) ConversationID() string {
	return e.conversationID
}

// World returns the world flags used by actions and routing.
func (e *Engine) World() ports.WorldState {
	return e.world
}

// Tick advances the text reveal by one frame. Returns true while revealing.
func (e *Engine) Tick(elapsed time.Duration) bool {
	return e.reveal.Tick(elapsed)
}

// Revealing reports whether the active line is still being revealed.
func (e *Engine) Revealing() bool {
	return e.reveal.Active()
}

// ShownText is the part of the active line currently revealed.
func (e *Engine) ShownText() string {
	return e.reveal.Shown()
}

func (e *Engine) actionContext() registry.Context {
	return registry.Context{
		Tag:        e.data.ExtraData,
		NodeID:     e.data.NodeID,
		LineIndex:  e.data.ActiveLineIndex,
		Assignment: e.assignment,
		World:      e.world,
	}
}
