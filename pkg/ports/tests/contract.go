package tests

import (
	"context"
	"testing"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TreeLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.TreeLoader.
// expected maps tree ids to the trees the loader was seeded with.
func TreeLoaderContractTest(t *testing.T, loader ports.TreeLoader, expected map[string]*domain.Tree) {
	t.Helper()

	t.Run("GetTree_Success", func(t *testing.T) {
		for id, want := range expected {
			got, err := loader.GetTree(id)
			require.NoError(t, err, "getting tree %s", id)
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.Start, got.Start)
			require.Len(t, got.Nodes, len(want.Nodes), "node count of %s", id)
			for nid, wn := range want.Nodes {
				gn, ok := got.Nodes[nid]
				require.True(t, ok, "node %d missing from %s", nid, id)
				assert.Equal(t, wn.Kind, gn.Kind)
				assert.Equal(t, wn.Lines(), gn.Lines())
				assert.Equal(t, wn.ExtraData, gn.ExtraData)
				assert.Equal(t, wn.Edges(), gn.Edges())
			}
		}
	})

	t.Run("GetTree_NotFound", func(t *testing.T) {
		_, err := loader.GetTree("non-existent-tree")
		assert.ErrorIs(t, err, domain.ErrTreeNotFound)
	})

	t.Run("ListTrees", func(t *testing.T) {
		ids, err := loader.ListTrees()
		require.NoError(t, err)
		assert.Len(t, ids, len(expected))
		for id := range expected {
			assert.Contains(t, ids, id)
		}
	})
}

// AssignmentStoreContractTest verifies that an adapter complies with ports.AssignmentStore.
func AssignmentStoreContractTest(t *testing.T, store ports.AssignmentStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Save and Load", func(t *testing.T) {
		a := domain.NewAssignment("Crazy Cap", "crazy-cap")
		a.Display = "Cap"
		a.RecordInteraction()
		a.SetOverrideStartNode(16)

		require.NoError(t, store.Save(ctx, a))

		loaded, err := store.Load(ctx, "Crazy Cap")
		require.NoError(t, err)
		assert.Equal(t, "crazy-cap", loaded.TreeID())
		assert.Equal(t, "Cap", loaded.DisplayName())
		assert.Equal(t, 1, loaded.InteractionCount())
		id, ok := loaded.OverrideStartNode()
		assert.True(t, ok)
		assert.Equal(t, domain.NodeID(16), id)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrAssignmentNotFound)
	})

	t.Run("Loaded records are isolated", func(t *testing.T) {
		a := domain.NewAssignment("Isolated", "tree")
		require.NoError(t, store.Save(ctx, a))
		a.RecordInteraction()

		loaded, err := store.Load(ctx, "Isolated")
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.InteractionCount())
	})
}
