package backend_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/backend"
)

func newRedis(t *testing.T) (*backend.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return backend.NewRedis(client, backend.WithScanCount(2)), mr
}

func TestRedisStore_Contract(t *testing.T) {
	t.Parallel()

	testContract(t, func(t *testing.T) backend.Backend {
		r, _ := newRedis(t)
		return r
	})
}

func TestRedisStore_TTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r, mr := newRedis(t)

	require.NoError(t, r.Set(ctx, "ns:a", []byte("1"), backend.WithTTL(time.Minute)))
	require.NoError(t, r.Update(ctx, map[string][]byte{
		"ns:b": []byte("2"),
		"ns:c": []byte("3"),
	}, backend.WithTTL(time.Hour)))
	require.NoError(t, r.Update(ctx, map[string][]byte{"ns:d": []byte("4")}))

	assert.Equal(t, time.Minute, mr.TTL("ns:a"))
	assert.Equal(t, time.Hour, mr.TTL("ns:b"))
	assert.Equal(t, time.Hour, mr.TTL("ns:c"))
	assert.Zero(t, mr.TTL("ns:d"))

	mr.FastForward(2 * time.Minute)

	vals, err := r.Get(ctx, "ns:a", "ns:b", "ns:d")
	require.NoError(t, err)
	assert.Nil(t, vals[0])
	assert.Equal(t, []byte("2"), vals[1])
	assert.Equal(t, []byte("4"), vals[2])
}

func TestRedisStore_ClearManyKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r, _ := newRedis(t)

	entries := make(map[string][]byte)
	for i := range 25 {
		entries["ns:"+string(rune('a'+i))] = []byte{byte(i)}
	}
	require.NoError(t, r.Update(ctx, entries))
	require.NoError(t, r.Set(ctx, "other:a", []byte("keep")))

	require.NoError(t, r.Clear(ctx, "ns:"))

	n, err := r.Len(ctx, "ns:")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.Len(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRedisStore_GlobMetacharactersInPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r, _ := newRedis(t)

	require.NoError(t, r.Update(ctx, map[string][]byte{
		"a*b:1": []byte("1"),
		"axb:1": []byte("2"),
	}))

	keys, err := r.Keys(ctx, "a*b:")
	require.NoError(t, err)
	assert.Equal(t, []string{"a*b:1"}, keys)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	r := backend.NewRedis(client)
	mr.Close()

	_, err = r.Get(ctx, "ns:a")
	assert.Error(t, err)
	assert.Error(t, r.Set(ctx, "ns:a", []byte("1")))
	_, err = r.Keys(ctx, "")
	assert.Error(t, err)
}
