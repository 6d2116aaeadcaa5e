package presenter_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/dialogue"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/aretw0/parley/pkg/presenter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	containerVisible bool
	playerPanel      bool
	speakerName      string
	speakerText      string
	notice           bool
	options          []ports.OptionView
	highlighted      int

	renders int
	clears  int
}

func (s *fakeSurface) SetContainerVisible(v bool)    { s.containerVisible = v }
func (s *fakeSurface) SetSpeakerPanelVisible(p bool) { s.playerPanel = p }
func (s *fakeSurface) SetSpeakerName(name string)    { s.speakerName = name }
func (s *fakeSurface) SetSpeakerText(text string)    { s.speakerText = text }
func (s *fakeSurface) SetNoticeVisible(visible bool) { s.notice = visible }
func (s *fakeSurface) HighlightOption(index int)     { s.highlighted = index }
func (s *fakeSurface) ClearOptions()                 { s.options = nil; s.clears++ }
func (s *fakeSurface) RenderOptions(o []ports.OptionView) {
	s.options = append(s.options, o...)
	s.renders++
}

// queue hands out one batch of events per poll.
type queue struct {
	batches [][]ports.Event
}

func (q *queue) push(evs ...ports.Event) { q.batches = append(q.batches, evs) }

func (q *queue) Poll() []ports.Event {
	if len(q.batches) == 0 {
		return nil
	}
	next := q.batches[0]
	q.batches = q.batches[1:]
	return next
}

type fixture struct {
	engine  *runtime.Engine
	surface *fakeSurface
	input   *queue
	p       *presenter.Presenter
	ends    int
}

func setup(t *testing.T) *fixture {
	t.Helper()
	tree := domain.NewTree("cap", 0,
		&domain.Node{ID: 0, Kind: domain.KindNPC, Tag: "Cap", Text: "Hi [NAME]", ExtraData: domain.TagItemLookUp, Next: 1},
		&domain.Node{ID: 1, Kind: domain.KindPlayer, Options: []domain.Option{
			{Text: "Item?", To: 2},
			{Text: "Again", To: 1},
			{Text: "Bye", To: domain.NoNode},
		}},
		&domain.Node{ID: 2, Kind: domain.KindNPC, Tag: "Cap", Text: "Take it<br>Bye now", ExtraData: domain.TagItem, Next: domain.NoNode},
	)

	f := &fixture{surface: &fakeSurface{highlighted: -1}, input: &queue{}}
	hooks := domain.LifecycleHooks{
		OnConversationEnd: func(context.Context, *domain.ConversationEvent) { f.ends++ },
	}
	f.engine = runtime.NewEngine(
		dialogue.NewStore(memory.NewLoader(tree)),
		runtime.WithRevealDelay(time.Millisecond),
		runtime.WithLifecycleHooks(hooks),
	)
	f.p = presenter.New(f.engine, f.surface, f.input)

	a := domain.NewAssignment("crazy_cap", "cap")
	a.Display = "Bob"
	_, err := f.engine.BeginConversation(context.Background(), a)
	require.NoError(t, err)
	return f
}

// tick runs one frame with the given input.
func (f *fixture) tick(t *testing.T, elapsed time.Duration, evs ...ports.Event) error {
	t.Helper()
	if len(evs) > 0 {
		f.input.push(evs...)
	}
	return f.p.Tick(context.Background(), elapsed)
}

func (f *fixture) toOptions(t *testing.T) {
	t.Helper()
	require.NoError(t, f.tick(t, time.Second))
	require.NoError(t, f.tick(t, 0, ports.EventConfirm))
	require.True(t, f.engine.Current().IsPlayerTurn)
}

func TestPresenter_RendersNPCLine(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.tick(t, 2*time.Millisecond))
	assert.True(t, f.surface.containerVisible)
	assert.False(t, f.surface.playerPanel)
	assert.Equal(t, "Cap", f.surface.speakerName)
	assert.Equal(t, "Hi", f.surface.speakerText)

	require.NoError(t, f.tick(t, time.Second))
	assert.Equal(t, "Hi Bob", f.surface.speakerText)
}

func TestPresenter_ConfirmSkipsReveal(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.tick(t, time.Millisecond))
	require.NoError(t, f.tick(t, 0, ports.EventConfirm))

	assert.Equal(t, domain.NodeID(0), f.engine.Current().NodeID)
	assert.Equal(t, "Hi Bob", f.surface.speakerText)
}

func TestPresenter_ScrollClamps(t *testing.T) {
	f := setup(t)
	f.toOptions(t)

	var got []int
	for range 3 {
		require.NoError(t, f.tick(t, 0, ports.EventScrollDown))
		got = append(got, f.surface.highlighted)
	}
	assert.Equal(t, []int{1, 2, 2}, got)

	require.NoError(t, f.tick(t, 0, ports.EventScrollUp, ports.EventScrollUp, ports.EventScrollUp))
	assert.Equal(t, 0, f.surface.highlighted)
}

func TestPresenter_OptionsRenderedOnce(t *testing.T) {
	f := setup(t)
	f.toOptions(t)

	for range 5 {
		require.NoError(t, f.tick(t, 16*time.Millisecond, ports.EventScrollDown))
	}
	assert.Equal(t, 1, f.surface.renders)
	assert.Len(t, f.surface.options, 3)
	assert.True(t, f.surface.playerPanel)

	t.Run("Same option list on a new node is rebuilt", func(t *testing.T) {
		f.engine.SelectOption(-2)
		f.engine.SelectOption(1)
		require.NoError(t, f.tick(t, 0, ports.EventConfirm))
		assert.Equal(t, 2, f.surface.renders)
		assert.Len(t, f.surface.options, 3, "previous widgets are disposed first")
		assert.Equal(t, 0, f.surface.highlighted)
	})
}

func TestPresenter_EndsOnce(t *testing.T) {
	f := setup(t)
	f.toOptions(t)

	require.NoError(t, f.tick(t, 0, ports.EventScrollDown, ports.EventScrollDown))
	require.NoError(t, f.tick(t, 0, ports.EventConfirm))

	assert.False(t, f.engine.Active())
	assert.False(t, f.surface.containerVisible)
	assert.Empty(t, f.surface.options)

	require.NoError(t, f.tick(t, 0, ports.EventConfirm))
	require.NoError(t, f.tick(t, 0))
	assert.Equal(t, 1, f.ends)
}

func TestPresenter_ItemNotice(t *testing.T) {
	f := setup(t)
	f.toOptions(t)

	require.NoError(t, f.tick(t, time.Second, ports.EventConfirm))
	require.Equal(t, domain.NodeID(2), f.engine.Current().NodeID)
	require.NoError(t, f.tick(t, time.Second))

	require.NoError(t, f.tick(t, 0, ports.EventConfirm))
	assert.True(t, f.surface.notice)
	assert.True(t, f.engine.Current().ActionPaused)

	t.Run("Scrolling is ignored while paused", func(t *testing.T) {
		require.NoError(t, f.tick(t, 0, ports.EventScrollDown))
		assert.Equal(t, 0, f.engine.Current().SelectedOption)
	})

	require.NoError(t, f.tick(t, time.Second, ports.EventConfirm))
	assert.False(t, f.surface.notice)
	assert.Equal(t, "Bye now", f.surface.speakerText)
}

func TestPresenter_Quit(t *testing.T) {
	f := setup(t)

	err := f.tick(t, 0, ports.EventQuit)
	assert.ErrorIs(t, err, presenter.ErrQuit)
	assert.False(t, f.engine.Active())
	assert.False(t, f.surface.containerVisible)
	assert.Equal(t, 1, f.ends)
}

func TestPresenter_Run(t *testing.T) {
	f := setup(t)
	f.input.push(ports.EventQuit)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, f.p.Run(ctx, time.Millisecond))
	assert.False(t, f.engine.Active())
}
