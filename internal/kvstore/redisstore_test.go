package kvstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStoreFromClient(rdb, zerolog.Nop())
}

func TestRedisStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	require.NoError(t, store.Put(ctx, "meta/current-session", testDoc{Name: "s", Count: 1}))

	var got testDoc
	require.NoError(t, store.Get(ctx, "meta/current-session", &got))
	assert.Equal(t, "s", got.Name)

	var missing testDoc
	assert.ErrorIs(t, store.Get(ctx, "meta/absent", &missing), ErrNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	require.NoError(t, store.Put(ctx, "exams/e1", testDoc{Name: "e1"}))
	require.NoError(t, store.Delete(ctx, "exams/e1"))

	var got testDoc
	assert.ErrorIs(t, store.Get(ctx, "exams/e1", &got), ErrNotFound)
	assert.NoError(t, store.Delete(ctx, "exams/e1"))
}

func TestRedisStoreListByPrefix(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	require.NoError(t, store.Put(ctx, "student-status/c1__e1", testDoc{}))
	require.NoError(t, store.Put(ctx, "student-status/c1__e2", testDoc{}))
	require.NoError(t, store.Put(ctx, "results/c1__e1", testDoc{}))

	keys, err := store.List(ctx, "student-status/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"student-status/c1__e1", "student-status/c1__e2"}, keys)
}
