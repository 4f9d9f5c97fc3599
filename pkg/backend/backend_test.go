package backend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/backend"
)

// testContract runs the behaviour every Backend must share against fresh
// instances returned by open.
func testContract(t *testing.T, open func(t *testing.T) backend.Backend) {
	t.Helper()

	t.Run("get missing keys", func(t *testing.T) {
		b := open(t)
		vals, err := b.Get(context.Background(), "missing:1", "missing:2")
		require.NoError(t, err)
		require.Len(t, vals, 2)
		assert.Nil(t, vals[0])
		assert.Nil(t, vals[1])
	})

	t.Run("get without keys", func(t *testing.T) {
		b := open(t)
		vals, err := b.Get(context.Background())
		require.NoError(t, err)
		assert.Empty(t, vals)
	})

	t.Run("set and get", func(t *testing.T) {
		ctx := context.Background()
		b := open(t)

		require.NoError(t, b.Set(ctx, "ns:a", []byte("alpha")))
		require.NoError(t, b.Set(ctx, "ns:empty", []byte{}))

		vals, err := b.Get(ctx, "ns:a", "ns:missing", "ns:empty")
		require.NoError(t, err)
		require.Len(t, vals, 3)
		assert.Equal(t, []byte("alpha"), vals[0])
		assert.Nil(t, vals[1])
		assert.NotNil(t, vals[2])
		assert.Empty(t, vals[2])
	})

	t.Run("set overwrites", func(t *testing.T) {
		ctx := context.Background()
		b := open(t)

		require.NoError(t, b.Set(ctx, "ns:a", []byte("one")))
		require.NoError(t, b.Set(ctx, "ns:a", []byte("two")))

		vals, err := b.Get(ctx, "ns:a")
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), vals[0])
	})

	t.Run("returned values are not aliased", func(t *testing.T) {
		ctx := context.Background()
		b := open(t)

		in := []byte("value")
		require.NoError(t, b.Set(ctx, "ns:a", in))
		in[0] = 'X'

		vals, err := b.Get(ctx, "ns:a")
		require.NoError(t, err)
		vals[0][1] = 'Y'

		again, err := b.Get(ctx, "ns:a")
		require.NoError(t, err)
		assert.Equal(t, []byte("value"), again[0])
	})

	t.Run("update writes every entry", func(t *testing.T) {
		ctx := context.Background()
		b := open(t)

		require.NoError(t, b.Update(ctx, map[string][]byte{
			"ns:a": []byte("1"),
			"ns:b": []byte("2"),
			"ns:c": []byte("3"),
		}))
		require.NoError(t, b.Update(ctx, nil))

		vals, err := b.Get(ctx, "ns:c", "ns:a", "ns:b")
		require.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte("3"), []byte("1"), []byte("2")}, vals)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		ctx := context.Background()
		b := open(t)

		require.NoError(t, b.Set(ctx, "ns:a", []byte("1")))
		require.NoError(t, b.Delete(ctx, "ns:a", "ns:missing"))
		require.NoError(t, b.Delete(ctx, "ns:a"))
		require.NoError(t, b.Delete(ctx))

		n, err := b.Exists(ctx, "ns:a")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("exists counts arguments", func(t *testing.T) {
		ctx := context.Background()
		b := open(t)

		require.NoError(t, b.Update(ctx, map[string][]byte{
			"ns:a": []byte("1"),
			"ns:b": []byte("2"),
		}))

		n, err := b.Exists(ctx, "ns:a", "ns:b", "ns:c")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = b.Exists(ctx, "ns:a", "ns:a")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = b.Exists(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("keys len and clear by prefix", func(t *testing.T) {
		ctx := context.Background()
		b := open(t)

		require.NoError(t, b.Update(ctx, map[string][]byte{
			"one:a":   []byte("1"),
			"one:b":   []byte("2"),
			"two:a":   []byte("3"),
			"on_e:a":  []byte("4"),
			"onXe:zz": []byte("5"),
		}))

		keys, err := b.Keys(ctx, "one:")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"one:a", "one:b"}, keys)

		keys, err = b.Keys(ctx, "on_e:")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"on_e:a"}, keys)

		n, err := b.Len(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 5, n)

		n, err = b.Len(ctx, "two:")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, b.Clear(ctx, "one:"))

		keys, err = b.Keys(ctx, "one:")
		require.NoError(t, err)
		assert.Empty(t, keys)

		n, err = b.Exists(ctx, "two:a", "on_e:a", "onXe:zz")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		require.NoError(t, b.Clear(ctx, ""))
		n, err = b.Len(ctx, "")
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
