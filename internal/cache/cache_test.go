package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(4)
	require.NoError(t, err)

	_, err = c.Get(ctx, "products")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, "products", []byte(`[{"id":1}]`), time.Minute))
	got, err := c.Get(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))

	got[0] = 'x'
	again, err := c.Get(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(again), "callers must not alias cached bytes")

	require.NoError(t, c.Invalidate(ctx, "products"))
	_, err = c.Get(ctx, "products")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(0)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 5*time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))

	now = now.Add(4 * time.Minute)
	_, err = c.Get(ctx, "k")
	assert.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))

	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestNew(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	_, err = New(Config{Driver: "memcached"})
	assert.Error(t, err)

	_, err = New(Config{Driver: "redis"})
	assert.Error(t, err, "redis without a url is rejected before dialing")
}

type mockCmdable struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	if m.failGet != nil {
		return redis.NewStringResult("", m.failGet)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = string(value.([]byte))
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisCache_PrefixesKeys(t *testing.T) {
	ctx := context.Background()
	store := newMockCmdable()
	c := &RedisCache{store: store}

	require.NoError(t, c.Set(ctx, "products:snapshot", []byte("payload"), 10*time.Minute))
	assert.Equal(t, "payload", store.data["catalog:products:snapshot"])
	assert.Equal(t, 10*time.Minute, store.ttls["catalog:products:snapshot"])

	got, err := c.Get(ctx, "products:snapshot")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, c.Invalidate(ctx, "products:snapshot"))
	_, err = c.Get(ctx, "products:snapshot")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, c.Close())
}

func TestRedisCache_WrapsTransportErrors(t *testing.T) {
	store := newMockCmdable()
	store.failGet = errors.New("connection reset")
	c := &RedisCache{store: store}

	_, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}
