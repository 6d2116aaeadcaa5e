// Package presenter binds a conversation engine to a UI surface and an input source.
//
// The Presenter is poll based: every frame the host calls Tick, which drains
// input, forwards it to the engine and redraws the surface from the engine's
// NodeData. The engine never draws anything itself.
package presenter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
)

// Conversation is the part of the engine the presenter drives.
type Conversation interface {
	Active() bool
	Current() domain.NodeData
	ShownText() string
	Tick(elapsed time.Duration) bool
	Advance(ctx context.Context) (domain.NodeData, error)
	ConfirmOption(ctx context.Context) (domain.NodeData, error)
	SelectOption(delta int) int
	Acknowledge() bool
	EndConversation(ctx context.Context)
}

// ErrQuit is returned by Tick when the input source asked to quit.
var ErrQuit = errors.New("quit requested")

// Presenter renders a Conversation onto a Surface.
// Not safe for concurrent use.
type Presenter struct {
	conv    Conversation
	surface ports.Surface
	input   ports.InputSource
	logger  *slog.Logger

	// last drawn state
	visible     bool
	rendered    []string
	renderedRev uint64
	hasOptions  bool
	notice      bool
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Presenter) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a presenter. The surface starts hidden.
func New(conv Conversation, surface ports.Surface, input ports.InputSource, opts ...Option) *Presenter {
	p := &Presenter{
		conv:    conv,
		surface: surface,
		input:   input,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	surface.SetContainerVisible(false)
	return p
}

// Tick processes one frame: input, reveal progress, end detection and drawing.
// It returns ErrQuit when the player asked to leave, and engine errors as-is.
func (p *Presenter) Tick(ctx context.Context, elapsed time.Duration) error {
	var err error
	for _, ev := range p.poll() {
		if err = p.handle(ctx, ev); err != nil {
			break
		}
	}

	p.conv.Tick(elapsed)

	if p.conv.Active() && p.conv.Current().IsEnd {
		p.logger.Debug("end of conversation reached")
		p.conv.EndConversation(ctx)
	}

	p.render()
	return err
}

// Run ticks at the given frame interval until the conversation ends, the
// player quits or ctx is done. Quitting is not reported as an error.
func (p *Presenter) Run(ctx context.Context, frame time.Duration) error {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()
	for p.conv.Active() {
		select {
		case <-ctx.Done():
			p.conv.EndConversation(context.WithoutCancel(ctx))
			p.render()
			return ctx.Err()
		case now := <-ticker.C:
			err := p.Tick(ctx, now.Sub(last))
			last = now
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Presenter) poll() []ports.Event {
	if p.input == nil {
		return nil
	}
	return p.input.Poll()
}

func (p *Presenter) handle(ctx context.Context, ev ports.Event) error {
	if ev == ports.EventQuit {
		p.conv.EndConversation(ctx)
		return ErrQuit
	}
	if !p.conv.Active() {
		return nil
	}

	data := p.conv.Current()
	switch ev {
	case ports.EventScrollUp:
		if !data.ActionPaused {
			p.conv.SelectOption(-1)
		}
	case ports.EventScrollDown:
		if !data.ActionPaused {
			p.conv.SelectOption(1)
		}
	case ports.EventConfirm:
		if data.ActionPaused {
			p.conv.Acknowledge()
		}
		var err error
		if data.IsPlayerTurn {
			_, err = p.conv.ConfirmOption(ctx)
		} else {
			_, err = p.conv.Advance(ctx)
		}
		if err != nil && !errors.Is(err, domain.ErrNotActive) {
			p.logger.Error("advance failed", "error", err)
			return err
		}
	}
	return nil
}

// Flusher is implemented by surfaces that buffer drawing until the end of a frame.
type Flusher interface {
	Flush() error
}

func (p *Presenter) render() {
	p.draw()
	if f, ok := p.surface.(Flusher); ok {
		if err := f.Flush(); err != nil {
			p.logger.Warn("surface flush failed", "error", err)
		}
	}
}

func (p *Presenter) draw() {
	if !p.conv.Active() {
		if p.visible {
			p.clearOptions()
			p.setNotice(false)
			p.surface.SetContainerVisible(false)
			p.visible = false
		}
		return
	}

	data := p.conv.Current()
	if !p.visible {
		p.surface.SetContainerVisible(true)
		p.visible = true
	}
	if data.IsEnd {
		return
	}

	p.surface.SetSpeakerPanelVisible(data.IsPlayerTurn)
	p.setNotice(data.ActionPaused)

	if data.IsPlayerTurn {
		if !p.hasOptions || data.Revision != p.renderedRev || !slices.Equal(data.PlayerOptions, p.rendered) {
			p.clearOptions()
			views := make([]ports.OptionView, len(data.PlayerOptions))
			for i, text := range data.PlayerOptions {
				views[i] = ports.OptionView{Text: text, IsSelected: i == data.SelectedOption}
			}
			p.surface.RenderOptions(views)
			p.rendered = slices.Clone(data.PlayerOptions)
			p.renderedRev = data.Revision
			p.hasOptions = true
		}
		p.surface.HighlightOption(data.SelectedOption)
		return
	}

	p.clearOptions()
	p.surface.SetSpeakerName(data.SpeakerTag)
	p.surface.SetSpeakerText(p.conv.ShownText())
}

func (p *Presenter) clearOptions() {
	if !p.hasOptions {
		return
	}
	p.surface.ClearOptions()
	p.rendered = nil
	p.hasOptions = false
}

func (p *Presenter) setNotice(visible bool) {
	if p.notice == visible {
		return
	}
	p.surface.SetNoticeVisible(visible)
	p.notice = visible
}
