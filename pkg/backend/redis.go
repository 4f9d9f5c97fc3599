package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultScanCount = 1000

// RedisStore is a write-through Backend on top of go-redis. Any
// UniversalClient works; with a cluster client Keys and Clear only see the
// node SCAN happens to hit.
type RedisStore struct {
	db        redis.UniversalClient
	scanCount int64
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithScanCount sets the COUNT hint for SCAN.
func WithScanCount(n int64) RedisOption {
	return func(r *RedisStore) {
		if n > 0 {
			r.scanCount = n
		}
	}
}

// NewRedis wraps a connected client.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	r := &RedisStore{
		db:        client,
		scanCount: defaultScanCount,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Conn returns the underlying client.
func (r *RedisStore) Conn() redis.UniversalClient {
	return r.db
}

// Get issues a single MGET.
func (r *RedisStore) Get(ctx context.Context, keys ...string) ([][]byte, error) {
	if len(keys) == 0 {
		return [][]byte{}, nil
	}

	vals, err := r.db.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("backend: redis mget: %w", err)
	}

	out := make([][]byte, len(keys))
	for i, v := range vals {
		switch s := v.(type) {
		case string:
			out[i] = []byte(s)
		case []byte:
			out[i] = s
		}
	}
	return out, nil
}

// Set issues SET with the optional TTL.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, opts ...SetOption) error {
	o := ApplySetOptions(opts)
	if err := r.db.Set(ctx, key, value, o.TTL).Err(); err != nil {
		return fmt.Errorf("backend: redis set: %w", err)
	}
	return nil
}

// Update issues MSET, followed by EXPIRE per key inside a MULTI block when a
// TTL is given.
func (r *RedisStore) Update(ctx context.Context, entries map[string][]byte, opts ...SetOption) error {
	if len(entries) == 0 {
		return nil
	}

	o := ApplySetOptions(opts)
	pairs := make([]any, 0, len(entries)*2)
	for key, value := range entries {
		pairs = append(pairs, key, value)
	}

	if o.TTL <= 0 {
		if err := r.db.MSet(ctx, pairs...).Err(); err != nil {
			return fmt.Errorf("backend: redis mset: %w", err)
		}
		return nil
	}

	pipe := r.db.TxPipeline()
	pipe.MSet(ctx, pairs...)
	for key := range entries {
		pipe.Expire(ctx, key, o.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("backend: redis mset: %w", err)
	}
	return nil
}

// Delete issues DEL.
func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.db.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("backend: redis del: %w", err)
	}
	return nil
}

// Exists issues EXISTS.
func (r *RedisStore) Exists(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := r.db.Exists(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("backend: redis exists: %w", err)
	}
	return int(n), nil
}

// Keys walks SCAN MATCH for keys starting with pattern.
func (r *RedisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	match := escapeGlob(pattern) + "*"
	keys := make([]string, 0)

	var cursor uint64
	for {
		batch, next, err := r.db.Scan(ctx, cursor, match, r.scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("backend: redis scan: %w", err)
		}
		keys = append(keys, batch...)

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// Clear deletes keys starting with pattern. Keys written concurrently with
// the scan may survive.
func (r *RedisStore) Clear(ctx context.Context, pattern string) error {
	keys, err := r.Keys(ctx, pattern)
	if err != nil {
		return err
	}

	for start := 0; start < len(keys); start += int(r.scanCount) {
		end := min(start+int(r.scanCount), len(keys))
		if err := r.Delete(ctx, keys[start:end]...); err != nil {
			return err
		}
	}
	return nil
}

// Len counts keys starting with pattern.
func (r *RedisStore) Len(ctx context.Context, pattern string) (int, error) {
	keys, err := r.Keys(ctx, pattern)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
