package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/dialogue"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capTree is a small version of the Crazy Cap conversation.
func capTree() *domain.Tree {
	return domain.NewTree("cap", 0,
		&domain.Node{ID: 0, Kind: domain.KindNPC, Tag: "Cap", Text: "Hello [NAME]", ExtraData: domain.TagItemLookUp, Next: 1},
		&domain.Node{ID: 1, Kind: domain.KindPlayer, Options: []domain.Option{
			{Text: "Anything for me?", To: 2},
			{Text: "You look crazy", To: 3},
			{Text: "Bye", To: domain.NoNode},
		}},
		&domain.Node{ID: 2, Kind: domain.KindNPC, Tag: "Cap", Text: "Here, take this<br>Use it well", ExtraData: domain.TagItem, Next: domain.NoNode},
		&domain.Node{ID: 3, Kind: domain.KindNPC, Tag: "Cap", Text: "CRAZY?", ExtraData: domain.TagInsanity, Next: domain.NoNode},
		&domain.Node{ID: 16, Kind: domain.KindNPC, Tag: "Cap", Text: "Still crazy", Next: domain.NoNode},
		&domain.Node{ID: 17, Kind: domain.KindNPC, Tag: "Cap", Text: "Back again?", Next: 1},
	)
}

func newEngine(t *testing.T, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	store := dialogue.NewStore(memory.NewLoader(capTree()))
	opts = append([]runtime.EngineOption{runtime.WithRevealDelay(time.Millisecond)}, opts...)
	return runtime.NewEngine(store, opts...)
}

func newBob() *domain.Assignment {
	a := domain.NewAssignment("crazy_cap", "cap")
	a.Display = "Bob"
	return a
}

// settle finishes whatever reveal is in progress.
func settle(e *runtime.Engine) {
	for e.Tick(time.Second) {
	}
}

func TestEngine_BeginConversation(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	data, err := e.BeginConversation(ctx, newBob())
	require.NoError(t, err)

	assert.True(t, e.Active())
	assert.NotEmpty(t, e.ConversationID())
	assert.Equal(t, domain.NodeID(0), data.NodeID)
	assert.Equal(t, "Cap", data.SpeakerTag)
	assert.False(t, data.IsPlayerTurn)

	t.Run("Substitution precedes the reveal", func(t *testing.T) {
		assert.Equal(t, "Hello Bob", data.ActiveLine())
		assert.True(t, e.Revealing())
		assert.Equal(t, "", e.ShownText())
		settle(e)
		assert.Equal(t, "Hello Bob", e.ShownText())
	})

	t.Run("Interaction counted", func(t *testing.T) {
		assert.Equal(t, 1, e.Assignment().InteractionCount())
	})
}

func TestEngine_BeginWithoutTree(t *testing.T) {
	e := newEngine(t)

	_, err := e.BeginConversation(context.Background(), domain.NewAssignment("nobody", ""))
	assert.ErrorIs(t, err, domain.ErrNoTreeAssigned)
	assert.False(t, e.Active())

	_, err = e.BeginConversation(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoTreeAssigned)
}

func TestEngine_AdvanceInterruptsReveal(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	_, err := e.BeginConversation(ctx, newBob())
	require.NoError(t, err)
	e.Tick(time.Millisecond)
	require.True(t, e.Revealing())

	data, err := e.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(0), data.NodeID, "first advance only completes the line")
	assert.False(t, e.Revealing())
	assert.Equal(t, "Hello Bob", e.ShownText())

	data, err = e.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(1), data.NodeID)
	assert.True(t, data.IsPlayerTurn)
	assert.Equal(t, []string{"Anything for me?", "You look crazy", "Bye"}, data.PlayerOptions)
}

func TestEngine_SelectOption(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	assert.Equal(t, 0, e.SelectOption(1), "ignored while idle")

	_, err := e.BeginConversation(ctx, newBob())
	require.NoError(t, err)
	assert.Equal(t, 0, e.SelectOption(1), "ignored on npc turns")

	settle(e)
	_, err = e.Advance(ctx)
	require.NoError(t, err)

	tests := []struct {
		delta int
		want  int
	}{
		{-1, 0},
		{1, 1},
		{1, 2},
		{1, 2},
		{-5, 0},
		{2, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.SelectOption(tt.delta))
	}

	data, err := e.ConfirmOption(ctx)
	require.NoError(t, err)
	assert.True(t, data.IsEnd, "the third option leaves the tree")
}

func TestEngine_ItemPause(t *testing.T) {
	world := memory.NewWorld()
	var actions []domain.ActionEvent
	hooks := domain.LifecycleHooks{
		OnAction: func(_ context.Context, evt *domain.ActionEvent) {
			actions = append(actions, *evt)
		},
	}
	e := newEngine(t, runtime.WithWorld(world), runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	_, err := e.BeginConversation(ctx, newBob())
	require.NoError(t, err)
	_, err = e.JumpToNode(ctx, 2)
	require.NoError(t, err)
	settle(e)

	data, err := e.Advance(ctx)
	require.NoError(t, err)
	assert.True(t, data.ActionPaused)
	assert.Equal(t, 0, data.ActiveLineIndex)
	assert.True(t, world.Flag("gotItem"))

	t.Run("Advance is a no-op while paused", func(t *testing.T) {
		again, err := e.Advance(ctx)
		require.NoError(t, err)
		assert.True(t, again.ActionPaused)
		assert.Equal(t, 0, again.ActiveLineIndex)
	})

	t.Run("Acknowledged pause continues", func(t *testing.T) {
		require.True(t, e.Acknowledge())
		next, err := e.Advance(ctx)
		require.NoError(t, err)
		assert.False(t, next.ActionPaused)
		assert.Equal(t, 1, next.ActiveLineIndex)
		assert.Equal(t, "Use it well", next.ActiveLine())
	})

	t.Run("Later lines advance on their own", func(t *testing.T) {
		settle(e)
		next, err := e.Advance(ctx)
		require.NoError(t, err)
		assert.True(t, next.IsEnd)
	})

	require.Len(t, actions, 2)
	assert.True(t, actions[0].Outcome.Pause)
	assert.True(t, actions[1].Outcome.AdvancesAutomatically)
	assert.Equal(t, domain.TagItem, actions[0].Tag)
}

func TestEngine_AcknowledgeWithoutPause(t *testing.T) {
	e := newEngine(t)
	assert.False(t, e.Acknowledge())

	_, err := e.BeginConversation(context.Background(), newBob())
	require.NoError(t, err)
	assert.False(t, e.Acknowledge())
}

func TestEngine_InsanityOverride(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	bob := newBob()

	_, err := e.BeginConversation(ctx, bob)
	require.NoError(t, err)
	_, err = e.JumpToNode(ctx, 3)
	require.NoError(t, err)
	settle(e)

	data, err := e.Advance(ctx)
	require.NoError(t, err)
	assert.True(t, data.IsEnd)

	override, ok := bob.OverrideStartNode()
	require.True(t, ok)
	assert.Equal(t, domain.NodeID(16), override)

	e.EndConversation(ctx)
	data, err = e.BeginConversation(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(16), data.NodeID)
}

func TestEngine_RepeatVisitRouting(t *testing.T) {
	router := routing.NewRouter().Add("crazy_cap", routing.Always(), 17)
	e := newEngine(t, runtime.WithRouter(router))
	ctx := context.Background()
	bob := newBob()

	data, err := e.BeginConversation(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(0), data.NodeID, "first meeting ignores routing")
	e.EndConversation(ctx)

	data, err = e.BeginConversation(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(17), data.NodeID)
	assert.Equal(t, 2, bob.InteractionCount())

	t.Run("Routing wins over a start override", func(t *testing.T) {
		bob.SetOverrideStartNode(16)
		data, err := e.BeginConversation(ctx, bob)
		require.NoError(t, err)
		assert.Equal(t, domain.NodeID(17), data.NodeID)
	})
}

func TestEngine_MultiLineAdvanceInPlace(t *testing.T) {
	tree := domain.NewTree("lines", 0,
		&domain.Node{ID: 0, Kind: domain.KindNPC, Text: "One<br>Two<br>Three", Next: domain.NoNode},
	)
	e := runtime.NewEngine(dialogue.NewStore(memory.NewLoader(tree)), runtime.WithRevealDelay(time.Millisecond))
	ctx := context.Background()

	first, err := e.BeginConversation(ctx, domain.NewAssignment("x", "lines"))
	require.NoError(t, err)

	for i, want := range []string{"Two", "Three"} {
		settle(e)
		data, err := e.Advance(ctx)
		require.NoError(t, err)
		assert.Equal(t, i+1, data.ActiveLineIndex)
		assert.Equal(t, want, data.ActiveLine())
		assert.Equal(t, first.Revision, data.Revision, "same node, same revision")
	}

	settle(e)
	data, err := e.Advance(ctx)
	require.NoError(t, err)
	assert.True(t, data.IsEnd)

	_, err = e.Advance(ctx)
	assert.ErrorIs(t, err, domain.ErrNotActive)
}

func TestEngine_IdenticalLineIsNotRevealedAgain(t *testing.T) {
	tree := domain.NewTree("echo", 0,
		&domain.Node{ID: 0, Kind: domain.KindNPC, Tag: "Cap", Text: "Same line", Next: 1},
		&domain.Node{ID: 1, Kind: domain.KindNPC, Tag: "Cap", Text: "Same line", Next: 2},
		&domain.Node{ID: 2, Kind: domain.KindNPC, Tag: "Cap", Text: "Other line", Next: domain.NoNode},
	)
	newEcho := func(t *testing.T) *runtime.Engine {
		t.Helper()
		e := runtime.NewEngine(dialogue.NewStore(memory.NewLoader(tree)), runtime.WithRevealDelay(time.Millisecond))
		_, err := e.BeginConversation(context.Background(), domain.NewAssignment("cap", "echo"))
		require.NoError(t, err)
		return e
	}

	t.Run("Next node with the same text keeps it shown", func(t *testing.T) {
		e := newEcho(t)
		ctx := context.Background()
		settle(e)

		data, err := e.Advance(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.NodeID(1), data.NodeID)
		assert.Equal(t, "Same line", e.ShownText())
		assert.False(t, e.Revealing())

		data, err = e.Advance(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.NodeID(2), data.NodeID)
		assert.Equal(t, "", e.ShownText())
		assert.True(t, e.Revealing())
	})

	t.Run("Jumping to the node being revealed does not restart it", func(t *testing.T) {
		e := newEcho(t)
		ctx := context.Background()
		e.Tick(3 * time.Millisecond)
		require.Equal(t, "Sam", e.ShownText())

		_, err := e.JumpToNode(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "Sam", e.ShownText())
		assert.True(t, e.Revealing())

		_, err = e.JumpToNode(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "Sam", e.ShownText())
	})
}

func TestEngine_EndConversationIdempotent(t *testing.T) {
	var begins, ends int
	hooks := domain.LifecycleHooks{
		OnConversationBegin: func(context.Context, *domain.ConversationEvent) { begins++ },
		OnConversationEnd:   func(context.Context, *domain.ConversationEvent) { ends++ },
	}
	e := newEngine(t, runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	e.EndConversation(ctx)
	assert.Equal(t, 0, ends)

	_, err := e.BeginConversation(ctx, newBob())
	require.NoError(t, err)
	e.EndConversation(ctx)
	e.EndConversation(ctx)

	assert.Equal(t, 1, begins)
	assert.Equal(t, 1, ends)
	assert.False(t, e.Active())
	assert.Nil(t, e.Assignment())
	assert.Empty(t, e.ConversationID())

	_, err = e.Advance(ctx)
	assert.ErrorIs(t, err, domain.ErrNotActive)
}

func TestEngine_BeginEndsPreviousConversation(t *testing.T) {
	var ends int
	hooks := domain.LifecycleHooks{
		OnConversationEnd: func(context.Context, *domain.ConversationEvent) { ends++ },
	}
	e := newEngine(t, runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	_, err := e.BeginConversation(ctx, newBob())
	require.NoError(t, err)
	first := e.ConversationID()

	_, err = e.BeginConversation(ctx, newBob())
	require.NoError(t, err)
	assert.Equal(t, 1, ends)
	assert.NotEqual(t, first, e.ConversationID())
}

func TestEngine_NodeEnterHooks(t *testing.T) {
	var entered []domain.NodeID
	hooks := domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, evt *domain.NodeEvent) {
			entered = append(entered, evt.NodeID)
			assert.Equal(t, "cap", evt.TreeID)
		},
	}
	e := newEngine(t, runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	_, err := e.BeginConversation(ctx, newBob())
	require.NoError(t, err)
	settle(e)
	_, err = e.Advance(ctx)
	require.NoError(t, err)
	e.SelectOption(1)
	settle(e)
	_, err = e.ConfirmOption(ctx)
	require.NoError(t, err)

	assert.Equal(t, []domain.NodeID{0, 1, 3}, entered)
}

func TestEngine_JumpToMissingNode(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	_, err := e.JumpToNode(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotActive)

	_, err = e.BeginConversation(ctx, newBob())
	require.NoError(t, err)

	_, err = e.JumpToNode(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	assert.False(t, e.Active(), "a broken edge ends the conversation")
}

func TestEngine_CurrentIsACopy(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	data, err := e.BeginConversation(ctx, newBob())
	require.NoError(t, err)
	data.NPCLines[0] = "tampered"

	assert.Equal(t, "Hello Bob", e.Current().ActiveLine())
}
