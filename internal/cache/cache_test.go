package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/njchilds90/symexpr/internal/cache"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_StableAcrossMapOrder(t *testing.T) {
	a, err := cache.Key("rat", "simplify", map[string]interface{}{"expr": "1 + 1", "bindings": map[string]interface{}{"x": "1", "y": "2"}})
	require.NoError(t, err)
	b, err := cache.Key("rat", "simplify", map[string]interface{}{"bindings": map[string]interface{}{"y": "2", "x": "1"}, "expr": "1 + 1"})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := cache.Key("float", "simplify", map[string]interface{}{"expr": "1 + 1"})
	require.NoError(t, err)
	d, err := cache.Key("rat", "simplify", map[string]interface{}{"expr": "1 + 1"})
	require.NoError(t, err)
	assert.NotEqual(t, c, d, "numeric kind is part of the key")
}

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(4, 0)

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", []byte("v")))
	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryStore_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(2, 0)

	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	require.NoError(t, m.Set(ctx, "b", []byte("2")))
	require.NoError(t, m.Set(ctx, "c", []byte("3")))

	assert.Equal(t, 2, m.Len())
	_, ok, _ := m.Get(ctx, "a")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok, _ = m.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryStore_OverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(2, 0)

	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	require.NoError(t, m.Set(ctx, "b", []byte("2")))
	require.NoError(t, m.Set(ctx, "b", []byte("3")))

	got, ok, _ := m.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), got)
	got, _, _ = m.Get(ctx, "b")
	assert.Equal(t, []byte("3"), got)
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(4, 10*time.Millisecond)

	require.NoError(t, m.Set(ctx, "k", []byte("v")))
	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)

	time.Sleep(25 * time.Millisecond)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok, "entry should expire")
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var s cache.Store = cache.Nop{}
	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_GetSet(t *testing.T) {
	mr, client := newRedis(t)
	store := cache.NewFromClient(client, cache.WithPrefix("test:"))
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"string":"2"}`)))
	assert.True(t, mr.Exists("test:k"), "value should be stored under the prefix")

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"string":"2"}`, string(got))
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := newRedis(t)
	store := cache.NewFromClient(client, cache.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	assert.Equal(t, time.Minute, mr.TTL("symexpr:tool:k"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_Unreachable(t *testing.T) {
	store := cache.NewRedis("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = store.Close() })

	_, _, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, store.Ping(context.Background()))
}
