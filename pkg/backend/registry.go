package backend

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Factory opens the backend serving one session namespace.
// Factories for shared stores return the same instance for every namespace.
type Factory func(ctx context.Context, namespace string) (Backend, error)

// Registry maps backend identifiers to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Names are unique.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return ErrInvalidBackendName
	}
	if f == nil {
		return fmt.Errorf("%w: %s", ErrNilFactory, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBackend, name)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is Register that panics on error, for init-time wiring.
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered under name or ErrBackendImport.
func (r *Registry) Lookup(name string) (Factory, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: undefined backend type %q, registered: %s", ErrBackendImport, name, strings.Join(r.Names(), ", "))
	}
	return f, nil
}

// Names lists the registered identifiers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Shared adapts a single process-wide backend into a Factory.
func Shared(b Backend) Factory {
	return func(context.Context, string) (Backend, error) {
		return b, nil
	}
}
