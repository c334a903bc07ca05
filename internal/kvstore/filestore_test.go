package kvstore

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestFileStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	require.NoError(t, store.Put(ctx, "meta/sample", testDoc{Name: "a", Count: 3}))

	var got testDoc
	require.NoError(t, store.Get(ctx, "meta/sample", &got))
	assert.Equal(t, testDoc{Name: "a", Count: 3}, got)

	// Overwrite replaces the document.
	require.NoError(t, store.Put(ctx, "meta/sample", testDoc{Name: "b", Count: 1}))
	require.NoError(t, store.Get(ctx, "meta/sample", &got))
	assert.Equal(t, "b", got.Name)
}

func TestFileStoreMissingKey(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	var got testDoc
	assert.ErrorIs(t, store.Get(ctx, "meta/nope", &got), ErrNotFound)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	require.NoError(t, store.Put(ctx, "exams/e1", testDoc{Name: "e1"}))
	require.NoError(t, store.Delete(ctx, "exams/e1"))

	var got testDoc
	assert.ErrorIs(t, store.Get(ctx, "exams/e1", &got), ErrNotFound)

	// Deleting a missing key is not an error.
	assert.NoError(t, store.Delete(ctx, "exams/e1"))
}

func TestFileStoreListByPrefix(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	require.NoError(t, store.Put(ctx, "results/c1__e1", testDoc{}))
	require.NoError(t, store.Put(ctx, "results/c1__e2", testDoc{}))
	require.NoError(t, store.Put(ctx, "exams/e1", testDoc{}))

	keys, err := store.List(ctx, "results/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"results/c1__e1", "results/c1__e2"}, keys)

	keys, err = store.List(ctx, "student-status/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
