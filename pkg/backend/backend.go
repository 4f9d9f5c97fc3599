package backend

import (
	"context"
	"strings"
	"time"
)

// Backend identifiers understood by the session manager.
const (
	Memory         = "memory"
	Filesystem     = "filesystem"
	KeyValueRemote = "keyvalue-remote"
	Database       = "database"
)

// Backend is a key/value store addressed by fully-qualified keys.
type Backend interface {
	Get(ctx context.Context, keys ...string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte, opts ...SetOption) error
	Update(ctx context.Context, entries map[string][]byte, opts ...SetOption) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (int, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
	Clear(ctx context.Context, pattern string) error
	Len(ctx context.Context, pattern string) (int, error)
}

// Persister is implemented by backends holding an in-memory working copy that
// must be explicitly refreshed from and flushed to durable storage.
type Persister interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error
}

// Remover is implemented by backends that keep each namespace in storage of
// its own and can delete it as a whole.
type Remover interface {
	Remove(ctx context.Context) error
}

// SetOptions carries per-write settings.
type SetOptions struct {
	// TTL is the lifetime of the written keys. Zero means no expiry.
	TTL time.Duration
}

// SetOption configures a write.
type SetOption func(*SetOptions)

// WithTTL sets the lifetime of written keys on backends that support expiry.
func WithTTL(ttl time.Duration) SetOption {
	return func(o *SetOptions) {
		o.TTL = ttl
	}
}

// ApplySetOptions folds opts into a SetOptions value.
func ApplySetOptions(opts []SetOption) SetOptions {
	var o SetOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func matchPrefix(key, pattern string) bool {
	return strings.HasPrefix(key, pattern)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
