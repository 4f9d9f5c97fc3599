package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultTable is the table created by the bundled migration.
const DefaultTable = "session_entries"

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore is a write-through Backend storing one row per key.
// Expired rows are hidden from reads and removed by DeleteExpired, which a
// janitor goroutine runs periodically when a cleanup interval is set.
type PostgresStore struct {
	db    DB
	table string
	q     postgresQueries

	cleanupInterval time.Duration
	onCleanupError  func(error)
	stop            context.CancelFunc
	stopped         chan struct{}
	closeOnce       sync.Once
}

type postgresQueries struct {
	get, upsert, del, keys, clear, count, expire string
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithTable overrides the table name.
func WithTable(name string) PostgresOption {
	return func(p *PostgresStore) {
		if name != "" {
			p.table = name
		}
	}
}

// WithPostgresCleanupInterval starts a janitor that calls DeleteExpired every
// interval until Close. Zero or negative disables it.
func WithPostgresCleanupInterval(interval time.Duration) PostgresOption {
	return func(p *PostgresStore) {
		p.cleanupInterval = interval
	}
}

// WithCleanupErrorHandler receives janitor failures. They are dropped by default.
func WithCleanupErrorHandler(fn func(error)) PostgresOption {
	return func(p *PostgresStore) {
		p.onCleanupError = fn
	}
}

// NewPostgres wraps a connection pool. The table must already exist.
func NewPostgres(db DB, opts ...PostgresOption) *PostgresStore {
	p := &PostgresStore{db: db, table: DefaultTable}
	for _, opt := range opts {
		opt(p)
	}

	t := pgx.Identifier{p.table}.Sanitize()
	const live = "(expires_at IS NULL OR expires_at > now())"
	p.q = postgresQueries{
		get:    fmt.Sprintf(`SELECT key, value FROM %s WHERE key = ANY($1) AND %s`, t, live),
		upsert: fmt.Sprintf(`INSERT INTO %s (key, value, expires_at) VALUES ($1, $2, $3) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`, t),
		del:    fmt.Sprintf(`DELETE FROM %s WHERE key = ANY($1)`, t),
		keys:   fmt.Sprintf(`SELECT key FROM %s WHERE key LIKE $1 ESCAPE '\' AND %s`, t, live),
		clear:  fmt.Sprintf(`DELETE FROM %s WHERE key LIKE $1 ESCAPE '\'`, t),
		count:  fmt.Sprintf(`SELECT count(*) FROM %s WHERE key LIKE $1 ESCAPE '\' AND %s`, t, live),
		expire: fmt.Sprintf(`DELETE FROM %s WHERE expires_at IS NOT NULL AND expires_at <= now()`, t),
	}

	if p.cleanupInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		p.stop = cancel
		p.stopped = make(chan struct{})
		go p.cleanupLoop(ctx)
	}
	return p
}

// Get fetches every key with one query.
func (p *PostgresStore) Get(ctx context.Context, keys ...string) ([][]byte, error) {
	if len(keys) == 0 {
		return [][]byte{}, nil
	}

	found, err := p.fetch(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(keys))
	for i, key := range keys {
		if v, ok := found[key]; ok {
			out[i] = v
		}
	}
	return out, nil
}

func (p *PostgresStore) fetch(ctx context.Context, keys []string) (map[string][]byte, error) {
	rows, err := p.db.Query(ctx, p.q.get, keys)
	if err != nil {
		return nil, fmt.Errorf("backend: postgres get: %w", err)
	}
	defer rows.Close()

	found := make(map[string][]byte, len(keys))
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("backend: postgres get: %w", err)
		}
		if value == nil {
			value = []byte{}
		}
		found[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("backend: postgres get: %w", err)
	}
	return found, nil
}

// Set upserts a single row.
func (p *PostgresStore) Set(ctx context.Context, key string, value []byte, opts ...SetOption) error {
	o := ApplySetOptions(opts)
	if _, err := p.db.Exec(ctx, p.q.upsert, key, nonNil(value), expiresAt(o.TTL)); err != nil {
		return fmt.Errorf("backend: postgres set: %w", err)
	}
	return nil
}

// Update upserts every entry inside one transaction.
func (p *PostgresStore) Update(ctx context.Context, entries map[string][]byte, opts ...SetOption) (err error) {
	if len(entries) == 0 {
		return nil
	}

	o := ApplySetOptions(opts)
	exp := expiresAt(o.TTL)

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("backend: postgres begin: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback(ctx))
		}
	}()

	batch := &pgx.Batch{}
	for key, value := range entries {
		batch.Queue(p.q.upsert, key, nonNil(value), exp)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("backend: postgres update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("backend: postgres commit: %w", err)
	}
	return nil
}

// Delete removes rows by key.
func (p *PostgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := p.db.Exec(ctx, p.q.del, keys); err != nil {
		return fmt.Errorf("backend: postgres delete: %w", err)
	}
	return nil
}

// Exists counts the arguments with a live row.
func (p *PostgresStore) Exists(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	found, err := p.fetch(ctx, keys)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, key := range keys {
		if _, ok := found[key]; ok {
			n++
		}
	}
	return n, nil
}

// Keys lists live keys starting with pattern.
func (p *PostgresStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	rows, err := p.db.Query(ctx, p.q.keys, likePrefix(pattern))
	if err != nil {
		return nil, fmt.Errorf("backend: postgres keys: %w", err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("backend: postgres keys: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// Clear removes rows whose key starts with pattern.
func (p *PostgresStore) Clear(ctx context.Context, pattern string) error {
	if _, err := p.db.Exec(ctx, p.q.clear, likePrefix(pattern)); err != nil {
		return fmt.Errorf("backend: postgres clear: %w", err)
	}
	return nil
}

// Len counts live rows whose key starts with pattern.
func (p *PostgresStore) Len(ctx context.Context, pattern string) (int, error) {
	var n int64
	if err := p.db.QueryRow(ctx, p.q.count, likePrefix(pattern)).Scan(&n); err != nil {
		return 0, fmt.Errorf("backend: postgres len: %w", err)
	}
	return int(n), nil
}

// DeleteExpired removes rows past their expiry.
func (p *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := p.db.Exec(ctx, p.q.expire)
	if err != nil {
		return 0, fmt.Errorf("backend: postgres delete expired: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close stops the janitor and waits for a running cleanup to return. The
// pool is not closed. It is safe to call more than once.
func (p *PostgresStore) Close() error {
	p.closeOnce.Do(func() {
		if p.stop != nil {
			p.stop()
			<-p.stopped
		}
	})
	return nil
}

func (p *PostgresStore) cleanupLoop(ctx context.Context) {
	defer close(p.stopped)

	ticker := time.NewTicker(p.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := p.DeleteExpired(ctx); err != nil && ctx.Err() == nil && p.onCleanupError != nil {
				p.onCleanupError(err)
			}
		case <-ctx.Done():
			return
		}
	}
}

var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

func likePrefix(s string) string {
	return likeEscaper.Replace(s) + "%"
}

func expiresAt(ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	t := time.Now().Add(ttl)
	return &t
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
