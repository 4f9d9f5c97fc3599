package backend_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/backend"
)

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	r := backend.NewRegistry()
	mem := backend.NewMemory()
	defer mem.Close()

	require.NoError(t, r.Register(backend.Memory, backend.Shared(mem)))

	err := r.Register(backend.Memory, backend.Shared(mem))
	assert.ErrorIs(t, err, backend.ErrDuplicateBackend)

	err = r.Register("", backend.Shared(mem))
	assert.ErrorIs(t, err, backend.ErrInvalidBackendName)

	err = r.Register("custom", nil)
	assert.ErrorIs(t, err, backend.ErrNilFactory)

	assert.Panics(t, func() { r.MustRegister(backend.Memory, backend.Shared(mem)) })
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	r := backend.NewRegistry()
	mem := backend.NewMemory()
	defer mem.Close()
	r.MustRegister(backend.Memory, backend.Shared(mem))
	r.MustRegister(backend.Filesystem, backend.FilesystemFactory(t.TempDir()))

	assert.Equal(t, []string{backend.Filesystem, backend.Memory}, r.Names())

	t.Run("known", func(t *testing.T) {
		f, err := r.Lookup(backend.Memory)
		require.NoError(t, err)

		a, err := f(context.Background(), "ns-a")
		require.NoError(t, err)
		b, err := f(context.Background(), "ns-b")
		require.NoError(t, err)
		assert.Same(t, a, b)
	})

	t.Run("unknown", func(t *testing.T) {
		f, err := r.Lookup("nonexistent")
		assert.Nil(t, f)
		assert.ErrorIs(t, err, backend.ErrBackendImport)
		assert.Contains(t, err.Error(), "nonexistent")
		assert.Contains(t, err.Error(), "registered: filesystem, memory")
	})
}

func TestFilesystemFactory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	factory := backend.FilesystemFactory(dir)

	first, err := factory(ctx, "ns-a")
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "ns-a:k", []byte("v")))
	require.NoError(t, first.(backend.Persister).Save(ctx))

	_, err = os.Stat(filepath.Join(dir, backend.FileName("ns-a")))
	require.NoError(t, err)

	t.Run("loads existing data", func(t *testing.T) {
		b, err := factory(ctx, "ns-a")
		require.NoError(t, err)
		vals, err := b.Get(ctx, "ns-a:k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), vals[0])
	})

	t.Run("namespaces use separate files", func(t *testing.T) {
		b, err := factory(ctx, "ns-b")
		require.NoError(t, err)
		n, err := b.Len(ctx, "")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("corrupt file fails", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, backend.FileName("ns-c")), []byte("garbage"), 0o600))
		b, err := factory(ctx, "ns-c")
		assert.Nil(t, b)
		assert.ErrorIs(t, err, backend.ErrCorruptSessionData)
	})
}
