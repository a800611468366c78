package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLimiter(rdb, limit, window), mr
}

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_WindowResets(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:predict:10.0.0.1"))

	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(61 * time.Second)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_LaterHitsKeepWindow(t *testing.T) {
	l, mr := newTestLimiter(t, 5, time.Minute)
	ctx := context.Background()

	_, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	mr.FastForward(40 * time.Second)
	_, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, mr.TTL("ratelimit:predict:10.0.0.1"))

	mr.FastForward(21 * time.Second)
	assert.False(t, mr.Exists("ratelimit:predict:10.0.0.1"))
}

func TestRedisLimiter_Disabled(t *testing.T) {
	l, mr := newTestLimiter(t, 0, time.Minute)

	ok, err := l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists("ratelimit:predict:10.0.0.1"))
}

func TestRedisLimiter_ServerDown(t *testing.T) {
	l, mr := newTestLimiter(t, 5, time.Minute)
	mr.SetError("ERR server unavailable")

	_, err := l.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
}
