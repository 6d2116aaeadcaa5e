package tui

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aretw0/parley/pkg/ports"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

// DefaultWidth is the wrap width used when the terminal size is unknown.
const DefaultWidth = 72

// Surface draws a conversation as a full-screen terminal frame.
// Widget setters only record state; Flush redraws when something changed.
type Surface struct {
	out     *termenv.Output
	width   int
	profile *termenv.Profile

	container bool
	player    bool
	notice    bool
	name      string
	text      string
	options   []ports.OptionView
	highlight int

	dirty bool
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithWidth sets the wrap width of NPC text.
func WithWidth(width int) SurfaceOption {
	return func(s *Surface) {
		if width > 0 {
			s.width = width
		}
	}
}

// WithProfile forces a color profile, e.g. termenv.Ascii for plain output.
func WithProfile(p termenv.Profile) SurfaceOption {
	return func(s *Surface) {
		s.profile = &p
	}
}

// NewSurface creates a surface writing to w.
func NewSurface(w io.Writer, opts ...SurfaceOption) *Surface {
	s := &Surface{width: DefaultWidth}
	for _, opt := range opts {
		opt(s)
	}

	var outOpts []termenv.OutputOption
	if s.profile != nil {
		outOpts = append(outOpts, termenv.WithProfile(*s.profile))
	}
	s.out = termenv.NewOutput(w, outOpts...)
	return s
}

func (s *Surface) SetContainerVisible(visible bool) { set(s, &s.container, visible) }

func (s *Surface) SetSpeakerPanelVisible(isPlayer bool) { set(s, &s.player, isPlayer) }

func (s *Surface) SetSpeakerName(name string) { set(s, &s.name, name) }

func (s *Surface) SetSpeakerText(text string) { set(s, &s.text, text) }

func (s *Surface) SetNoticeVisible(visible bool) { set(s, &s.notice, visible) }

func (s *Surface) ClearOptions() {
	if len(s.options) > 0 {
		s.options = nil
		s.dirty = true
	}
}

func (s *Surface) RenderOptions(options []ports.OptionView) {
	s.options = append(s.options, options...)
	s.highlight = -1
	for i, o := range options {
		if o.IsSelected {
			s.highlight = i
		}
	}
	s.dirty = true
}

func (s *Surface) HighlightOption(index int) { set(s, &s.highlight, index) }

// Options returns the option widgets currently drawn.
func (s *Surface) Options() []ports.OptionView {
	views := slices.Clone(s.options)
	for i := range views {
		views[i].IsSelected = i == s.highlight
	}
	return views
}

// Flush redraws the screen if any widget changed since the last flush.
func (s *Surface) Flush() error {
	if !s.dirty {
		return nil
	}
	s.dirty = false

	s.out.ClearScreen()
	s.out.MoveCursor(1, 1)
	// raw mode disables output post-processing
	_, err := io.WriteString(s.out, strings.ReplaceAll(s.Frame(), "\n", "\r\n"))
	return err
}

// Frame renders the current widgets as text.
func (s *Surface) Frame() string {
	if !s.container {
		return ""
	}

	var sb strings.Builder
	rule := strings.Repeat("─", s.width)
	fmt.Fprintln(&sb, s.color(rule, "#6b7280"))

	if s.player {
		for i, o := range s.options {
			if i == s.highlight {
				fmt.Fprintln(&sb, s.color("> "+o.Text, "#60a5fa"))
				continue
			}
			fmt.Fprintln(&sb, "  "+o.Text)
		}
	} else {
		if s.name != "" {
			fmt.Fprintln(&sb, s.out.String(s.name).Bold().Foreground(s.out.Color("#f472b6")))
		}
		fmt.Fprintln(&sb, wordwrap.String(s.text, s.width))
	}

	if s.notice {
		fmt.Fprintln(&sb)
		fmt.Fprintln(&sb, s.color("* You received an item *", "#facc15"))
	}

	fmt.Fprintln(&sb, s.color(rule, "#6b7280"))
	fmt.Fprintln(&sb, s.color("W/S choose · Enter/Space continue · Q quit", "#6b7280"))
	return sb.String()
}

func (s *Surface) color(text, hex string) termenv.Style {
	return s.out.String(text).Foreground(s.out.Color(hex))
}

func set[T comparable](s *Surface, field *T, v T) {
	if *field != v {
		*field = v
		s.dirty = true
	}
}
