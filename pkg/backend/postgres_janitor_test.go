package backend_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/backend"
)

// execRecorder is a backend.DB that records Exec statements. Only Exec is used
// by the janitor.
type execRecorder struct {
	mu      sync.Mutex
	deletes int
	err     error
}

func (r *execRecorder) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if strings.Contains(sql, "expires_at <= now()") {
		r.deletes++
	}
	if r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	return pgconn.NewCommandTag("DELETE 2"), nil
}

func (r *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (r *execRecorder) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (r *execRecorder) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("not implemented")
}

func (r *execRecorder) deleteCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deletes
}

func TestPostgresStore_Janitor(t *testing.T) {
	t.Parallel()

	t.Run("deletes expired rows periodically", func(t *testing.T) {
		t.Parallel()

		db := &execRecorder{}
		p := backend.NewPostgres(db, backend.WithPostgresCleanupInterval(5*time.Millisecond))

		assert.Eventually(t, func() bool { return db.deleteCount() >= 2 }, time.Second, 5*time.Millisecond)

		require.NoError(t, p.Close())
		require.NoError(t, p.Close())

		stoppedAt := db.deleteCount()
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, stoppedAt, db.deleteCount(), "no cleanup after Close")
	})

	t.Run("reports failures", func(t *testing.T) {
		t.Parallel()

		errDown := errors.New("connection refused")
		var reported atomic.Int32
		p := backend.NewPostgres(&execRecorder{err: errDown},
			backend.WithPostgresCleanupInterval(5*time.Millisecond),
			backend.WithCleanupErrorHandler(func(err error) {
				if errors.Is(err, errDown) {
					reported.Add(1)
				}
			}),
		)
		t.Cleanup(func() { _ = p.Close() })

		assert.Eventually(t, func() bool { return reported.Load() > 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("disabled by default", func(t *testing.T) {
		t.Parallel()

		db := &execRecorder{}
		p := backend.NewPostgres(db)
		time.Sleep(20 * time.Millisecond)
		assert.Zero(t, db.deleteCount())
		require.NoError(t, p.Close())
	})

	t.Run("DeleteExpired reports affected rows", func(t *testing.T) {
		t.Parallel()

		n, err := backend.NewPostgres(&execRecorder{}).DeleteExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}
