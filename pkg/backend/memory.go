package backend

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Backend. Values are copied on the way in and
// out so callers never share buffers with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithCleanupInterval starts a goroutine that evicts expired entries.
// Zero or negative disables it; expired entries are still hidden on read.
func WithCleanupInterval(interval time.Duration) MemoryOption {
	return func(m *MemoryStore) {
		if interval > 0 {
			m.ticker = time.NewTicker(interval)
		}
	}
}

// WithMemoryClock overrides the clock used for TTL checks.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates an in-memory backend.
func NewMemory(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.ticker != nil {
		go m.cleanupLoop()
	}

	return m
}

// Get returns one slot per key, nil for missing or expired keys.
func (m *MemoryStore) Get(ctx context.Context, keys ...string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := m.now()
	out := make([][]byte, len(keys))

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i, key := range keys {
		if e, ok := m.entries[key]; ok && !e.expired(now) {
			out[i] = cloneBytes(e.value)
		}
	}
	return out, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, opts ...SetOption) error {
	return m.Update(ctx, map[string][]byte{key: value}, opts...)
}

// Update stores every entry under a single lock.
func (m *MemoryStore) Update(ctx context.Context, entries map[string][]byte, opts ...SetOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o := ApplySetOptions(opts)
	var expiresAt time.Time
	if o.TTL > 0 {
		expiresAt = m.now().Add(o.TTL)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range entries {
		if value == nil {
			value = []byte{}
		}
		m.entries[key] = memoryEntry{value: cloneBytes(value), expiresAt: expiresAt}
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (m *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

// Exists counts the arguments present in the store.
func (m *MemoryStore) Exists(ctx context.Context, keys ...string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := m.now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, key := range keys {
		if e, ok := m.entries[key]; ok && !e.expired(now) {
			n++
		}
	}
	return n, nil
}

// Keys lists live keys starting with pattern.
func (m *MemoryStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := m.now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0)
	for key, e := range m.entries {
		if matchPrefix(key, pattern) && !e.expired(now) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Clear removes every key starting with pattern.
func (m *MemoryStore) Clear(ctx context.Context, pattern string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.entries {
		if matchPrefix(key, pattern) {
			delete(m.entries, key)
		}
	}
	return nil
}

// Len counts live keys starting with pattern.
func (m *MemoryStore) Len(ctx context.Context, pattern string) (int, error) {
	keys, err := m.Keys(ctx, pattern)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// DeleteExpired evicts expired entries and reports how many were removed.
func (m *MemoryStore) DeleteExpired(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
			n++
		}
	}
	return n, nil
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (m *MemoryStore) Close() error {
	m.closeOnce.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_, _ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
