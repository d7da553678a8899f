package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/VladimirMalevanik/discy/internal/ladder"
	"github.com/VladimirMalevanik/discy/internal/logger"
)

// checkStore runs the same Get/Put/ErrNotFound sequence against any backend.
func checkStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "u:1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "u:1", []byte(`{"version":1}`)))
	require.NoError(t, store.Put(ctx, "u:1", []byte(`{"version":1,"points":5}`)))
	v, err := store.Get(ctx, "u:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"points":5}`, string(v))

	repo := NewRepository(store)
	require.NoError(t, repo.AddUser(ctx, 3))
	require.NoError(t, repo.AddUser(ctx, 3))
	ids, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)

	u := ladder.NewUser(3, "2024-01-01")
	u.Streak = 4
	require.NoError(t, repo.SaveUser(ctx, u))
	got, err := repo.LoadUser(ctx, 3, "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func newMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	return miniredis.RunT(t)
}

func TestStoreBackends(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		checkStore(t, NewMemoryStore())
	})

	t.Run("sqlite", func(t *testing.T) {
		gdb, err := gorm.Open(sqlite.Open("file:backends?mode=memory&cache=shared"), &gorm.Config{})
		require.NoError(t, err)
		store, err := NewGormStore(gdb)
		require.NoError(t, err)
		defer store.Close()
		checkStore(t, store)
	})

	t.Run("redis", func(t *testing.T) {
		mr := newMiniredis(t)
		store, err := NewStore(context.Background(), Config{Backend: BackendRedis, RedisAddr: mr.Addr()}, logger.Nop())
		require.NoError(t, err)
		defer store.Close()
		checkStore(t, store)
	})
}

func TestRedisStorePrefix(t *testing.T) {
	ctx := context.Background()
	mr := newMiniredis(t)
	store, err := NewRedisStore(ctx, Config{Backend: BackendRedis, RedisAddr: mr.Addr(), RedisPrefix: "ladder:"})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(ctx, "users", []byte(`[1]`)))
	raw, err := mr.Get("ladder:users")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, raw)
	assert.False(t, mr.Exists("users"))

	// a second client on the same prefix sees the record
	other, err := NewRedisStore(ctx, Config{Backend: BackendRedis, RedisAddr: mr.Addr(), RedisPrefix: "ladder:"})
	require.NoError(t, err)
	defer other.Close()
	v, err := other.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(v))
}

func TestRedisStorePingFailure(t *testing.T) {
	mr := newMiniredis(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), Config{Backend: BackendRedis, RedisAddr: addr})
	assert.Error(t, err)
}

func TestRedisStoreServerError(t *testing.T) {
	ctx := context.Background()
	mr := newMiniredis(t)
	store, err := NewRedisStore(ctx, Config{Backend: BackendRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer store.Close()

	mr.SetError("LOADING")
	_, err = store.Get(ctx, "users")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
