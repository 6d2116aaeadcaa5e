package parley

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/actions"
	loamAdapter "github.com/aretw0/parley/pkg/adapters/loam"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/dialogue"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/observability"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/aretw0/parley/pkg/presenter"
	"github.com/aretw0/parley/pkg/registry"
	"github.com/aretw0/parley/pkg/reveal"
	"github.com/aretw0/parley/pkg/routing"
)

// Game is the high-level entry point of the library.
// It wires a tree loader, the action registry, repeat-visit routing and an
// optional assignment store around a single conversation engine.
type Game struct {
	engine      *runtime.Engine
	loader      ports.TreeLoader
	store       *dialogue.Store
	registry    *registry.Registry
	defaults    actions.Defaults
	router      *routing.Router
	world       ports.WorldState
	assignments ports.AssignmentStore
	hooks       domain.LifecycleHooks
	delay       time.Duration
	logger      *slog.Logger

	// talking is the persisted record of the active conversation, if any.
	talking *domain.Assignment
}

// Option defines a functional option for configuring the Game.
type Option func(*Game)

// WithLoader injects a custom TreeLoader, bypassing the default Loam initialization.
func WithLoader(l ports.TreeLoader) Option {
	return func(g *Game) {
		g.loader = l
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Game) {
		g.hooks = hooks
	}
}

// WithRouter sets the repeat-visit routing rules.
func WithRouter(r *routing.Router) Option {
	return func(g *Game) {
		g.router = r
	}
}

// WithWorld sets the world flags shared by actions and routing.
func WithWorld(w ports.WorldState) Option {
	return func(g *Game) {
		g.world = w
	}
}

// WithRegistry replaces the action registry. The built-in actions are still
// registered unless the registry already has a handler for their tag.
func WithRegistry(r *registry.Registry) Option {
	return func(g *Game) {
		g.registry = r
	}
}

// WithActionDefaults configures the built-in item and insanity actions.
func WithActionDefaults(d actions.Defaults) Option {
	return func(g *Game) {
		g.defaults = d
	}
}

// WithRevealDelay sets the per-character reveal interval.
func WithRevealDelay(d time.Duration) Option {
	return func(g *Game) {
		g.delay = d
	}
}

// WithAssignments persists character records between conversations started with Talk.
func WithAssignments(s ports.AssignmentStore) Option {
	return func(g *Game) {
		g.assignments = s
	}
}

// New initializes a Game.
// By default, trees are read from a Loam repository at treesPath.
// If WithLoader is provided, treesPath can be empty and Loam is skipped.
func New(treesPath string, opts ...Option) (*Game, error) {
	g := &Game{
		delay: reveal.DefaultDelay,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.loader == nil {
		if treesPath == "" {
			return nil, fmt.Errorf("treesPath is required when no custom loader is provided")
		}
		l, err := loamAdapter.Open(treesPath)
		if err != nil {
			return nil, err
		}
		g.loader = l
	}

	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g.router == nil {
		g.router = routing.NewRouter()
	}
	if g.world == nil {
		g.world = memory.NewWorld()
	}
	if g.registry == nil {
		g.registry = registry.NewRegistry()
	}
	registerMissing(g.registry, g.defaults)

	g.store = dialogue.NewStore(g.loader, dialogue.WithLogger(g.logger))
	dispatcher := actions.NewDispatcher(g.registry, actions.WithLogger(g.logger))

	hooks := observability.Combine(g.hooks, domain.LifecycleHooks{
		OnConversationEnd: g.persistOnEnd,
	})

	g.engine = runtime.NewEngine(g.store,
		runtime.WithLogger(g.logger),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithDispatcher(dispatcher),
		runtime.WithRouter(g.router),
		runtime.WithWorld(g.world),
		runtime.WithRevealDelay(g.delay),
	)
	return g, nil
}

// registerMissing installs the built-in actions without overriding user handlers.
func registerMissing(reg *registry.Registry, d actions.Defaults) {
	builtin := registry.NewRegistry()
	actions.RegisterDefaults(builtin, d)
	for _, tag := range builtin.Tags() {
		if fn, ok := builtin.Handler(tag); ok {
			if _, taken := reg.Handler(tag); !taken {
				reg.Register(tag, fn)
			}
		}
		if fn, ok := builtin.Substitution(tag); ok {
			if _, taken := reg.Substitution(tag); !taken {
				reg.RegisterSubstitution(tag, fn)
			}
		}
	}
}

// Talk begins a conversation with a stored character.
// Without an assignment store, or when the character has no record yet,
// fallback is used and saved. fallback may be nil when the record must exist.
func (g *Game) Talk(ctx context.Context, identity string, fallback *domain.Assignment) (domain.NodeData, error) {
	a, err := g.loadAssignment(ctx, identity, fallback)
	if err != nil {
		return domain.NodeData{}, err
	}

	data, err := g.engine.BeginConversation(ctx, a)
	if err != nil {
		return domain.NodeData{}, err
	}
	g.talking = a
	if err := g.save(ctx, a); err != nil {
		return data, err
	}
	return data, nil
}

func (g *Game) loadAssignment(ctx context.Context, identity string, fallback *domain.Assignment) (*domain.Assignment, error) {
	if g.assignments == nil {
		if fallback == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrAssignmentNotFound, identity)
		}
		return fallback, nil
	}

	a, err := g.assignments.Load(ctx, identity)
	if errors.Is(err, domain.ErrAssignmentNotFound) && fallback != nil {
		return fallback, nil
	}
	return a, err
}

func (g *Game) save(ctx context.Context, a *domain.Assignment) error {
	if g.assignments == nil || a == nil {
		return nil
	}
	if err := g.assignments.Save(ctx, a); err != nil {
		return fmt.Errorf("failed to save assignment %s: %w", a.Identity(), err)
	}
	return nil
}

func (g *Game) persistOnEnd(ctx context.Context, _ *domain.ConversationEvent) {
	a := g.talking
	g.talking = nil
	if err := g.save(ctx, a); err != nil {
		g.logger.Error("assignment not persisted", "error", err)
	}
}

// BeginConversation starts a conversation with any assignment record.
// The record is not persisted; use Talk for stored characters.
func (g *Game) BeginConversation(ctx context.Context, a ports.AssignmentRecord) (domain.NodeData, error) {
	return g.engine.BeginConversation(ctx, a)
}

// Advance moves the conversation forward by one step.
func (g *Game) Advance(ctx context.Context) (domain.NodeData, error) {
	return g.engine.Advance(ctx)
}

// ConfirmOption commits the highlighted option.
func (g *Game) ConfirmOption(ctx context.Context) (domain.NodeData, error) {
	return g.engine.ConfirmOption(ctx)
}

// SelectOption moves the highlighted option by delta.
func (g *Game) SelectOption(delta int) int {
	return g.engine.SelectOption(delta)
}

// JumpToNode moves the conversation to id unconditionally.
func (g *Game) JumpToNode(ctx context.Context, id domain.NodeID) (domain.NodeData, error) {
	return g.engine.JumpToNode(ctx, id)
}

// EndConversation returns the game to idle.
func (g *Game) EndConversation(ctx context.Context) {
	g.engine.EndConversation(ctx)
}

// Acknowledge releases a paused action.
func (g *Game) Acknowledge() bool {
	return g.engine.Acknowledge()
}

// Tick drives the text reveal by one frame.
func (g *Game) Tick(elapsed time.Duration) bool {
	return g.engine.Tick(elapsed)
}

// Active reports whether a conversation is loaded.
func (g *Game) Active() bool {
	return g.engine.Active()
}

// Current returns a copy of the active NodeData.
func (g *Game) Current() domain.NodeData {
	return g.engine.Current()
}

// Revealing reports whether the active line is still being revealed.
func (g *Game) Revealing() bool {
	return g.engine.Revealing()
}

// ShownText is the revealed part of the active line.
func (g *Game) ShownText() string {
	return g.engine.ShownText()
}

// ConversationID identifies the active conversation.
func (g *Game) ConversationID() string {
	return g.engine.ConversationID()
}

// Presenter binds the game to a surface and an input source.
func (g *Game) Presenter(surface ports.Surface, input ports.InputSource) *presenter.Presenter {
	return presenter.New(g, surface, input, presenter.WithLogger(g.logger))
}

// Loader returns the underlying TreeLoader.
func (g *Game) Loader() ports.TreeLoader {
	return g.loader
}

// World returns the world flags.
func (g *Game) World() ports.WorldState {
	return g.world
}

// Registry returns the action registry, for registering custom tags.
func (g *Game) Registry() *registry.Registry {
	return g.registry
}

// Validate checks every tree the loader knows about.
func (g *Game) Validate() error {
	ids, err := g.loader.ListTrees()
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range ids {
		t, err := g.loader.GetTree(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Watchable is implemented by loaders that report changed trees.
type Watchable interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// Watch reloads trees as the loader reports changes, until ctx is done.
// Returns an error if the loader does not support watching.
func (g *Game) Watch(ctx context.Context) error {
	w, ok := g.loader.(Watchable)
	if !ok {
		return fmt.Errorf("current loader does not support watching")
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	go g.store.Follow(ctx, changes)
	return nil
}
