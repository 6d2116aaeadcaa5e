package dialogue_test

import (
	"context"
	"testing"

	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/dialogue"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() (*dialogue.Store, *memory.Loader) {
	tree := domain.NewTree("t", 0,
		&domain.Node{ID: 0, Kind: domain.KindNPC, Tag: "NPC", Text: "A<br>B", Next: 1},
		&domain.Node{ID: 1, Kind: domain.KindPlayer, Options: []domain.Option{
			{Text: "Go on", To: 2},
			{Text: "Leave", To: domain.NoNode},
		}},
		&domain.Node{ID: 2, Kind: domain.KindNPC, Text: "C", Next: domain.NoNode},
	)
	loader := memory.NewLoader(tree)
	return dialogue.NewStore(loader), loader
}

func TestStore_LoadFirstNode(t *testing.T) {
	store, _ := newStore()
	data, err := store.LoadFirstNode(domain.NewAssignment("x", "t"))
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(0), data.NodeID)
	assert.Equal(t, []string{"A", "B"}, data.NPCLines)
	assert.Equal(t, "NPC", data.SpeakerTag)
}

func TestStore_NoTree(t *testing.T) {
	store, _ := newStore()
	_, err := store.LoadFirstNode(domain.NewAssignment("x", ""))
	assert.ErrorIs(t, err, domain.ErrNoTreeAssigned)

	_, err = store.LoadFirstNode(nil)
	assert.ErrorIs(t, err, domain.ErrNoTreeAssigned)

	_, err = store.LoadFirstNode(domain.NewAssignment("x", "missing"))
	assert.ErrorIs(t, err, domain.ErrTreeNotFound)
}

func TestStore_LoadNext(t *testing.T) {
	store, _ := newStore()
	a := domain.NewAssignment("x", "t")

	data, err := store.LoadNext(a, 0, 0)
	require.NoError(t, err)
	assert.True(t, data.IsPlayerTurn)
	assert.Equal(t, []string{"Go on", "Leave"}, data.PlayerOptions)

	data, err = store.LoadNext(a, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(2), data.NodeID)

	_, err = store.LoadNext(a, 1, 1)
	assert.ErrorIs(t, err, domain.ErrEndOfTree)

	_, err = store.LoadNext(a, 2, 0)
	assert.ErrorIs(t, err, domain.ErrEndOfTree)

	// Out-of-range choices are clamped.
	data, err = store.LoadNext(a, 1, -3)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(2), data.NodeID)
}

func TestStore_LoadNode(t *testing.T) {
	store, _ := newStore()
	a := domain.NewAssignment("x", "t")

	data, err := store.LoadNode(a, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, data.NPCLines)

	_, err = store.LoadNode(a, 99)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestStore_CachesTrees(t *testing.T) {
	store, loader := newStore()
	a := domain.NewAssignment("x", "t")

	_, err := store.LoadFirstNode(a)
	require.NoError(t, err)

	loader.AddTree(domain.NewTree("t", 5, &domain.Node{ID: 5, Kind: domain.KindNPC, Text: "new", Next: domain.NoNode}))

	data, err := store.LoadFirstNode(a)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(0), data.NodeID, "cached tree is served until invalidated")

	store.Invalidate("t")
	data, err = store.LoadFirstNode(a)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(5), data.NodeID)
}

func TestStore_Follow(t *testing.T) {
	store, loader := newStore()
	a := domain.NewAssignment("x", "t")

	_, err := store.LoadFirstNode(a)
	require.NoError(t, err)

	loader.AddTree(domain.NewTree("t", 5,
		&domain.Node{ID: 5, Kind: domain.KindNPC, Text: "Changed", Next: domain.NoNode},
	))

	changes := make(chan string, 1)
	changes <- "t"
	close(changes)
	store.Follow(context.Background(), changes)

	data, err := store.LoadFirstNode(a)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(5), data.NodeID)
}
