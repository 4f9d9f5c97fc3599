package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/backend"
)

var jsonNull = []byte("null")

// Session is the key/value view of one user session. Every key is stored
// under the session namespace; values are JSON.
//
// Writes reach durable storage when the backend writes through (memory,
// redis, postgres) or after Save (filesystem). A Session is not safe for
// concurrent use by multiple goroutines unless its backend is.
type Session struct {
	id          string
	backendName string
	backend     backend.Backend
	keys        keyCodec
	values      valueCodec
	ttl         time.Duration
	observer    Observer
	destroyed   bool
}

// ID returns the session id carried in the cookie.
func (s *Session) ID() string {
	return s.id
}

// Namespace returns the storage prefix isolating this session.
func (s *Session) Namespace() string {
	return s.keys.namespace
}

// Backend returns the underlying storage handle.
func (s *Session) Backend() backend.Backend {
	return s.backend
}

// Get decodes the value stored under key into dest. It reports false, with
// dest untouched, when the key is not set.
func (s *Session) Get(ctx context.Context, key string, dest any) (bool, error) {
	vals, err := s.GetMany(ctx, key)
	if err != nil {
		return false, err
	}
	if vals[0].IsNil() {
		return false, nil
	}
	if err := vals[0].Decode(dest); err != nil {
		return false, err
	}
	return true, nil
}

// GetMany fetches several keys in one backend round trip. The result has one
// Value per key, in order.
func (s *Session) GetMany(ctx context.Context, keys ...string) ([]Value, error) {
	derived, err := s.keys.deriveAll(keys)
	if err != nil {
		return nil, err
	}

	raws, err := s.backend.Get(ctx, derived...)
	if err != nil {
		return nil, err
	}

	out := make([]Value, len(keys))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		data, err := s.values.decode(raw)
		if err != nil {
			return nil, fmt.Errorf("session: key %q: %w", keys[i], err)
		}
		out[i] = Value{data: data}
	}
	return out, nil
}

// Set stores value under key.
func (s *Session) Set(ctx context.Context, key string, value any) error {
	derived, err := s.keys.derive(key)
	if err != nil {
		return err
	}
	data, err := s.values.encode(value)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, derived, data, s.setOptions()...)
}

// Update stores every entry of values.
func (s *Session) Update(ctx context.Context, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}

	entries := make(map[string][]byte, len(values))
	for key, value := range values {
		derived, err := s.keys.derive(key)
		if err != nil {
			return err
		}
		data, err := s.values.encode(value)
		if err != nil {
			return err
		}
		entries[derived] = data
	}
	return s.backend.Update(ctx, entries, s.setOptions()...)
}

// Delete removes keys. Deleting a key that is not set is not an error.
func (s *Session) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	derived, err := s.keys.deriveAll(keys)
	if err != nil {
		return err
	}
	return s.backend.Delete(ctx, derived...)
}

// Exists counts how many of keys are set.
func (s *Session) Exists(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	derived, err := s.keys.deriveAll(keys)
	if err != nil {
		return 0, err
	}
	return s.backend.Exists(ctx, derived...)
}

// Keys lists the keys of this session in sorted order. With encryption
// enabled these are the original keys; otherwise they are the one-way
// digests the keys are stored under.
func (s *Session) Keys(ctx context.Context) ([]string, error) {
	backendKeys, err := s.backend.Keys(ctx, s.keys.prefix())
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(backendKeys))
	for _, bk := range backendKeys {
		key, err := s.keys.logical(bk)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

// Clear removes every key of this session.
func (s *Session) Clear(ctx context.Context) error {
	return s.backend.Clear(ctx, s.keys.prefix())
}

// Len counts the keys of this session.
func (s *Session) Len(ctx context.Context) (int, error) {
	return s.backend.Len(ctx, s.keys.prefix())
}

// Destroy deletes the session from storage. Backends implementing
// backend.Remover drop the whole namespace, others have its keys cleared.
// Save is a no-op afterwards, so a destroyed session is never written back.
func (s *Session) Destroy(ctx context.Context) error {
	if r, ok := s.backend.(backend.Remover); ok {
		if err := r.Remove(ctx); err != nil {
			return err
		}
	} else if err := s.Clear(ctx); err != nil {
		return err
	}
	s.destroyed = true
	return nil
}

// Save flushes the working copy of persisting backends. It is a no-op for
// write-through backends and after Destroy.
func (s *Session) Save(ctx context.Context) error {
	p, ok := s.backend.(backend.Persister)
	if !ok || s.destroyed {
		return nil
	}
	err := p.Save(ctx)
	s.observer.ObserveSave(s.backendName, err)
	return err
}

// Load refreshes the working copy of persisting backends, discarding unsaved
// writes. It is a no-op for write-through backends.
func (s *Session) Load(ctx context.Context) error {
	p, ok := s.backend.(backend.Persister)
	if !ok {
		return nil
	}
	return p.Load(ctx)
}

func (s *Session) setOptions() []backend.SetOption {
	if s.ttl <= 0 {
		return nil
	}
	return []backend.SetOption{backend.WithTTL(s.ttl)}
}

// Value is one result of GetMany.
type Value struct {
	data []byte
}

// IsNil reports whether the key was not set. A stored JSON null also counts
// as not set.
func (v Value) IsNil() bool {
	return v.data == nil || bytes.Equal(bytes.TrimSpace(v.data), jsonNull)
}

// Decode unmarshals the value into dest. It is a no-op for nil values and a
// nil dest.
func (v Value) Decode(dest any) error {
	if v.IsNil() || dest == nil {
		return nil
	}
	if err := json.Unmarshal(v.data, dest); err != nil {
		return errors.Join(ErrCorruptSessionData, err)
	}
	return nil
}

// Raw returns the JSON encoding of the value, or nil when it is not set.
func (v Value) Raw() json.RawMessage {
	if v.IsNil() {
		return nil
	}
	return json.RawMessage(v.data)
}
