package file_test

import (
	"context"
	"testing"

	"github.com/aretw0/parley/pkg/adapters/file"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentStore_Contract(t *testing.T) {
	tests.AssignmentStoreContractTest(t, file.NewAssignmentStore(t.TempDir()))
}

func TestAssignmentStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := file.NewAssignmentStore(t.TempDir())

	require.NoError(t, store.Save(ctx, domain.NewAssignment("bob", "greet")))
	require.NoError(t, store.Delete(ctx, "bob"))
	require.NoError(t, store.Delete(ctx, "bob"))

	_, err := store.Load(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrAssignmentNotFound)
}

func TestAssignmentStore_RejectsEmptyIdentity(t *testing.T) {
	store := file.NewAssignmentStore(t.TempDir())
	assert.Error(t, store.Save(context.Background(), domain.NewAssignment("", "t")))
	_, err := store.Load(context.Background(), "")
	assert.Error(t, err)
}
