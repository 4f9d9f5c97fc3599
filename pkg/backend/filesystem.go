package backend

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/sdassow/atomic"
)

const (
	fileExt            = ".session"
	lockExt            = ".lock"
	defaultFileMode    = 0o600
	defaultDirMode     = 0o700
	defaultLockBackoff = 10 * time.Millisecond
)

// FileStore keeps one session namespace in a single file holding a JSON
// object of key to base64 value. Reads and writes go to an in-memory working
// copy; Load and Save move it to and from disk under an exclusive flock held
// on a sidecar ".lock" file. Save replaces the data file atomically, so
// readers never observe a torn write.
//
// TTLs are ignored: the file lives as long as the session does.
type FileStore struct {
	path  string
	mode  os.FileMode
	delay time.Duration

	// ioMu serialises Load and Save within the process: a flock.Flock is
	// reentrant for its owner and would not exclude sibling goroutines.
	ioMu sync.Mutex
	lock *flock.Flock

	mu   sync.RWMutex
	data map[string][]byte
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFileMode sets the permission bits of the data file.
func WithFileMode(mode os.FileMode) FileOption {
	return func(f *FileStore) {
		if mode != 0 {
			f.mode = mode
		}
	}
}

// WithLockRetryDelay sets how often a contended lock is retried.
func WithLockRetryDelay(d time.Duration) FileOption {
	return func(f *FileStore) {
		if d > 0 {
			f.delay = d
		}
	}
}

// OpenFile prepares a FileStore at dir/name without touching the data file.
// The directory is created if missing.
func OpenFile(dir, name string, opts ...FileOption) (*FileStore, error) {
	if dir == "" || name == "" {
		return nil, fmt.Errorf("%w: filesystem backend needs a directory and a file name", ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, defaultDirMode); err != nil {
		return nil, fmt.Errorf("backend: create session dir: %w", err)
	}

	path := filepath.Join(dir, name)
	f := &FileStore{
		path:  path,
		mode:  defaultFileMode,
		delay: defaultLockBackoff,
		lock:  flock.New(path + lockExt),
		data:  make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// FileName derives the on-disk file name for a namespace.
func FileName(namespace string) string {
	sum := sha256.Sum256([]byte(namespace))
	return hex.EncodeToString(sum[:]) + fileExt
}

// FilesystemFactory returns a Factory that opens and loads one FileStore per
// namespace under dir.
func FilesystemFactory(dir string, opts ...FileOption) Factory {
	return func(ctx context.Context, namespace string) (Backend, error) {
		f, err := OpenFile(dir, FileName(namespace), opts...)
		if err != nil {
			return nil, err
		}
		if err := f.Load(ctx); err != nil {
			return nil, err
		}
		return f, nil
	}
}

// Path returns the data file path.
func (f *FileStore) Path() string {
	return f.path
}

// Load replaces the working copy with the file contents. A missing or empty
// file yields an empty store; undecodable contents yield ErrCorruptSessionData.
func (f *FileStore) Load(ctx context.Context) error {
	unlock, err := f.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	raw, err := os.ReadFile(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("backend: read session file: %w", err)
	}

	data := make(map[string][]byte)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return errors.Join(ErrCorruptSessionData, err)
		}
		if data == nil {
			data = make(map[string][]byte)
		}
	}

	f.mu.Lock()
	f.data = data
	f.mu.Unlock()
	return nil
}

// Save writes the working copy to disk, replacing the file atomically.
func (f *FileStore) Save(ctx context.Context) error {
	f.mu.RLock()
	raw, err := json.Marshal(f.data)
	f.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("backend: encode session file: %w", err)
	}

	unlock, err := f.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := atomic.WriteFile(f.path, bytes.NewReader(raw), atomic.DefaultFileMode(f.mode)); err != nil {
		return fmt.Errorf("backend: write session file: %w", err)
	}
	return nil
}

// Remove deletes the data file and its lock file and clears the working copy.
// The lock file is unlinked while still locked: a process already waiting on
// it acquires an orphaned lock, so Remove must not race with Save on the same
// session from another process.
func (f *FileStore) Remove(ctx context.Context) error {
	unlock, err := f.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("backend: remove session file: %w", err)
	}
	if err := os.Remove(f.lock.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("backend: remove session lock file: %w", err)
	}

	f.mu.Lock()
	f.data = make(map[string][]byte)
	f.mu.Unlock()
	return nil
}

func (f *FileStore) acquire(ctx context.Context) (func(), error) {
	f.ioMu.Lock()

	locked, err := f.lock.TryLockContext(ctx, f.delay)
	if err != nil || !locked {
		f.ioMu.Unlock()
		if err == nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("backend: lock session file: %w", err)
	}

	return func() {
		_ = f.lock.Unlock()
		f.ioMu.Unlock()
	}, nil
}

// Get returns one slot per key from the working copy.
func (f *FileStore) Get(ctx context.Context, keys ...string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([][]byte, len(keys))
	for i, key := range keys {
		if v, ok := f.data[key]; ok {
			out[i] = cloneBytes(v)
		}
	}
	return out, nil
}

// Set stores value in the working copy. The TTL option is ignored.
func (f *FileStore) Set(ctx context.Context, key string, value []byte, opts ...SetOption) error {
	return f.Update(ctx, map[string][]byte{key: value}, opts...)
}

// Update stores every entry in the working copy. The TTL option is ignored.
func (f *FileStore) Update(ctx context.Context, entries map[string][]byte, _ ...SetOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for key, value := range entries {
		if value == nil {
			value = []byte{}
		}
		f.data[key] = cloneBytes(value)
	}
	return nil
}

// Delete removes keys from the working copy.
func (f *FileStore) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

// Exists counts the arguments present in the working copy.
func (f *FileStore) Exists(ctx context.Context, keys ...string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	n := 0
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			n++
		}
	}
	return n, nil
}

// Keys lists working-copy keys starting with pattern.
func (f *FileStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	keys := make([]string, 0, len(f.data))
	for key := range f.data {
		if matchPrefix(key, pattern) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Clear removes working-copy keys starting with pattern.
func (f *FileStore) Clear(ctx context.Context, pattern string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for key := range f.data {
		if matchPrefix(key, pattern) {
			delete(f.data, key)
		}
	}
	return nil
}

// Len counts working-copy keys starting with pattern.
func (f *FileStore) Len(ctx context.Context, pattern string) (int, error) {
	keys, err := f.Keys(ctx, pattern)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
