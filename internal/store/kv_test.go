package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestRedisKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisKV(client), mr
}

func TestRedisKVRoundTrip(t *testing.T) {
	kv, _ := newTestRedisKV(t)
	ctx := context.Background()

	_, err := kv.Get(ctx, "session:abc")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "session:abc", "payload", time.Minute))
	val, err := kv.Get(ctx, "session:abc")
	require.NoError(t, err)
	require.Equal(t, "payload", val)

	require.NoError(t, kv.Delete(ctx, "session:abc"))
	_, err = kv.Get(ctx, "session:abc")
	require.ErrorIs(t, err, ErrMiss)
}

func TestRedisKVExpiry(t *testing.T) {
	kv, mr := newTestRedisKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "session:abc", "payload", time.Second))
	mr.FastForward(2 * time.Second)

	_, err := kv.Get(ctx, "session:abc")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKVRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "k", "v", 0))
	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", val)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKVLazyExpiry(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}
