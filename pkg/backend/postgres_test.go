package backend_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/migrations"
	"github.com/dmitrymomot/sessionkit/pkg/backend"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/pg"
)

// newPostgres connects to SESSIONKIT_TEST_PG_URL, applies the migrations and
// truncates the table. Tests are skipped when the variable is unset.
func newPostgres(t *testing.T) *backend.PostgresStore {
	t.Helper()

	url := os.Getenv("SESSIONKIT_TEST_PG_URL")
	if url == "" {
		t.Skip("SESSIONKIT_TEST_PG_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	cfg := pg.Config{MigrationsPath: ".", MigrationsTable: "sessionkit_test_migrations"}
	require.NoError(t, pg.MigrateFS(ctx, pool, migrations.FS, cfg, logger.NewNope()))

	_, err = pool.Exec(ctx, "TRUNCATE session_entries")
	require.NoError(t, err)

	return backend.NewPostgres(pool)
}

func TestPostgresStore_Contract(t *testing.T) {
	// Subtests share one table.
	testContract(t, func(t *testing.T) backend.Backend {
		return newPostgres(t)
	})
}

func TestPostgresStore_TTL(t *testing.T) {
	ctx := context.Background()
	p := newPostgres(t)

	require.NoError(t, p.Set(ctx, "ns:short", []byte("s"), backend.WithTTL(50*time.Millisecond)))
	require.NoError(t, p.Update(ctx, map[string][]byte{"ns:long": []byte("l")}, backend.WithTTL(time.Hour)))

	time.Sleep(100 * time.Millisecond)

	vals, err := p.Get(ctx, "ns:short", "ns:long")
	require.NoError(t, err)
	assert.Nil(t, vals[0])
	assert.Equal(t, []byte("l"), vals[1])

	n, err := p.Len(ctx, "ns:")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	removed, err := p.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
