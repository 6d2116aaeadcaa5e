package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/parley/internal/testutils"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const capDoc = `---
name: Crazy Cap
start: 0
nodes:
  - id: 0
    tag: Cap
    text: "Hello [NAME]<br>Lovely hat, no?"
    extra_data: itemLookUp
    next: 1
  - id: 1
    kind: player
    options:
      - text: Sure
        to: 2
      - text: Bye
  - id: 2
    tag: Cap
    text: Take it!
    extra_data: item
---
The hat seller by the docks.
`

const shopDoc = `---
id: shop
nodes:
  - id: 7
    text: Closed today
---
`

func newLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, files)
	return New(loam.NewTypedRepository[TreeMetadata](repo))
}

func TestLoader_Contract(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"crazy-cap.md": capDoc,
		"shop.md":      shopDoc,
	})

	crazyCap := domain.NewTree("crazy-cap", 0,
		&domain.Node{ID: 0, Kind: domain.KindNPC, Tag: "Cap", Text: "Hello [NAME]<br>Lovely hat, no?", ExtraData: domain.TagItemLookUp, Next: 1},
		&domain.Node{ID: 1, Kind: domain.KindPlayer, Options: []domain.Option{
			{Text: "Sure", To: 2},
			{Text: "Bye", To: domain.NoNode},
		}},
		&domain.Node{ID: 2, Kind: domain.KindNPC, Tag: "Cap", Text: "Take it!", ExtraData: domain.TagItem, Next: domain.NoNode},
	)
	shop := domain.NewTree("shop", 7,
		&domain.Node{ID: 7, Kind: domain.KindNPC, Text: "Closed today", Next: domain.NoNode},
	)

	tests.TreeLoaderContractTest(t, loader, map[string]*domain.Tree{
		"crazy-cap": crazyCap,
		"shop":      shop,
	})
}

func TestLoader_Describe(t *testing.T) {
	loader := newLoader(t, map[string]string{"crazy-cap.md": capDoc})

	tree, body, err := loader.Describe(context.Background(), "crazy-cap")
	require.NoError(t, err)
	assert.Equal(t, "Crazy Cap", tree.Name)
	assert.Equal(t, "The hat seller by the docks.", body)
	assert.NoError(t, tree.Validate())
}

func TestLoader_ListTrees_DetectsCollisions(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"a.md": "---\nid: same\nnodes:\n  - id: 0\n    text: A\n---\n",
		"b.md": "---\nid: same\nnodes:\n  - id: 0\n    text: B\n---\n",
	})

	_, err := loader.ListTrees()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "same")
}

func TestLoader_EmptyTree(t *testing.T) {
	loader := newLoader(t, map[string]string{"empty.md": "---\nname: Empty\n---\nNothing here\n"})

	_, err := loader.GetTree("empty")
	assert.ErrorContains(t, err, "has no nodes")
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "crazy-cap", trimExtension("crazy-cap.md"))
	assert.Equal(t, "npcs/guard", trimExtension("npcs/guard.yaml"))
	assert.Equal(t, "plain", trimExtension("plain"))
}
