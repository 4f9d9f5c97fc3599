package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/backend"
	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/encryptor"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/signer"
)

// Manager issues and verifies session cookies and opens sessions on the
// configured backend. It is immutable after New and safe for concurrent use.
type Manager struct {
	cfg      Config
	cookies  *cookie.Manager
	codec    *tokenCodec
	enc      *encryptor.Encryptor
	factory  backend.Factory
	registry *backend.Registry
	owned    []io.Closer
	log      *slog.Logger
	observer Observer

	cookieLoader   CookieLoader
	invalidCookie  InvalidCookieHandler
	missingSession MissingSessionHandler
	undefinedError UndefinedErrorHandler

	strict     bool
	autoSave   bool
	maxAge     *time.Duration
	now        func() time.Time
	iterations int

	closeOnce sync.Once
	closeErr  error
}

// New validates cfg, resolves the backend and builds the manager.
// An unknown backend identifier fails here with ErrBackendImport.
func New(cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:      cfg,
		log:      logger.NewNope(),
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = m.defaultRegistry()
	}

	factory, err := m.registry.Lookup(cfg.Backend)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	m.factory = factory

	s, err := signer.New(cfg.Secret, signer.WithClock(m.now))
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	if cfg.Encrypt {
		var encOpts []encryptor.Option
		if m.iterations > 0 {
			encOpts = append(encOpts, encryptor.WithIterations(m.iterations))
		}
		if m.enc, err = encryptor.New(cfg.Secret, []byte(cfg.Salt), encOpts...); err != nil {
			_ = m.Close()
			return nil, err
		}
	}

	m.codec = &tokenCodec{signer: s, enc: m.enc, unsign: m.unsignOptions()}
	m.cookies = cookie.New(m.codec, cfg.cookieOptions()...)

	m.log = m.log.With(logger.Component("session"), logger.Backend(cfg.Backend))

	defaults := m.cookies.Defaults()
	m.log.Debug("session manager ready",
		slog.String("cookie", cfg.CookieName),
		slog.String("same_site", cookie.SameSiteString(defaults.SameSite)),
		slog.Bool("secure", defaults.Secure),
		slog.Bool("encrypt", cfg.Encrypt),
	)
	return m, nil
}

func (m *Manager) unsignOptions() []signer.UnsignOption {
	var opts []signer.UnsignOption
	switch {
	case m.maxAge != nil:
		opts = append(opts, signer.WithMaxAge(*m.maxAge))
	case m.cfg.CookieMaxAge > 0:
		opts = append(opts, signer.WithMaxAge(m.cfg.CookieMaxAge))
	}
	if !m.cfg.CookieExpires.IsZero() {
		opts = append(opts, signer.WithExpiresAt(m.cfg.CookieExpires))
	}
	return opts
}

// defaultRegistry wires a process-wide memory store and a filesystem
// directory. The memory store is closed with the manager.
func (m *Manager) defaultRegistry() *backend.Registry {
	dir := m.cfg.FSDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "sessionkit")
	}

	mem := backend.NewMemory(backend.WithCleanupInterval(m.cfg.CleanupInterval))
	m.owned = append(m.owned, mem)

	r := backend.NewRegistry()
	r.MustRegister(backend.Memory, backend.Shared(mem))
	r.MustRegister(backend.Filesystem, backend.FilesystemFactory(dir))
	return r
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() Config {
	return m.cfg
}

// LoadSession derives the namespace of sessionID and opens it on the backend.
// Backend errors are returned unchanged; no partial Session is ever returned.
func (m *Manager) LoadSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	namespace, err := namespaceFor(m.cfg.Secret, sessionID, m.enc)
	if err != nil {
		return nil, err
	}

	b, err := m.factory(ctx, namespace)
	m.observer.ObserveLoad(m.cfg.Backend, err)
	if err != nil {
		return nil, err
	}

	return &Session{
		id:          sessionID,
		backendName: m.cfg.Backend,
		backend:     b,
		keys:        keyCodec{namespace: namespace, enc: m.enc},
		values:      valueCodec{enc: m.enc},
		ttl:         m.cfg.EntryTTL,
		observer:    m.observer,
	}, nil
}

// HasCookie reports whether r carries a session cookie, valid or not.
func (m *Manager) HasCookie(r *http.Request) bool {
	return m.cookies.Has(r, m.cfg.CookieName)
}

// GetCookie verifies the session cookie and returns the session id.
// Verification failures wrap ErrInvalidCookie together with the cause.
func (m *Manager) GetCookie(r *http.Request) (string, error) {
	sessionID, err := m.cookies.GetDecoded(r, m.cfg.CookieName)
	if errors.Is(err, cookie.ErrCookieNotFound) {
		return "", ErrNoCookie
	}
	return sessionID, err
}

// PostprocessCookie passes a verified session id through the CookieLoader.
// Without one it returns sessionID unchanged.
func (m *Manager) PostprocessCookie(ctx context.Context, r *http.Request, sessionID string) (string, error) {
	if m.cookieLoader == nil {
		return sessionID, nil
	}
	return m.cookieLoader.LoadCookie(ctx, r, sessionID)
}

// SetCookie writes a freshly signed cookie for sessionID. opts override the
// configured attributes for this call.
func (m *Manager) SetCookie(w http.ResponseWriter, sessionID string, opts ...cookie.Option) error {
	return m.cookies.SetEncoded(w, m.cfg.CookieName, sessionID, opts...)
}

// UnsetCookie expires the session cookie. Pass the same overrides used with
// SetCookie: a browser ignores the deletion when path or domain differ.
func (m *Manager) UnsetCookie(w http.ResponseWriter, opts ...cookie.Option) {
	m.cookies.Delete(w, m.cfg.CookieName, opts...)
}

// Close releases the backends created by the manager itself.
// Backends from a caller-supplied registry are left alone.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		var errs []error
		for _, c := range m.owned {
			errs = append(errs, c.Close())
		}
		m.closeErr = errors.Join(errs...)
	})
	return m.closeErr
}
