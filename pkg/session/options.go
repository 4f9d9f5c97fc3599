package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/backend"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithRegistry replaces the default registry. The caller owns the backends
// it hands out and closes them.
func WithRegistry(r *backend.Registry) Option {
	return func(m *Manager) {
		m.registry = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithObserver receives middleware outcomes and backend events.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observer = o
		}
	}
}

// WithCookieLoader post-processes verified cookie payloads.
func WithCookieLoader(l CookieLoader) Option {
	return func(m *Manager) {
		m.cookieLoader = l
	}
}

// WithInvalidCookieHandler handles requests carrying a cookie that fails verification.
func WithInvalidCookieHandler(h InvalidCookieHandler) Option {
	return func(m *Manager) {
		m.invalidCookie = h
	}
}

// WithMissingSessionHandler resolves requests that need a session but have none.
func WithMissingSessionHandler(h MissingSessionHandler) Option {
	return func(m *Manager) {
		m.missingSession = h
	}
}

// WithUndefinedErrorHandler handles failures other than cookie verification.
func WithUndefinedErrorHandler(h UndefinedErrorHandler) Option {
	return func(m *Manager) {
		m.undefinedError = h
	}
}

// WithStrict answers 400 to requests with an invalid cookie when no
// InvalidCookieHandler is configured, instead of letting them through.
func WithStrict(strict bool) Option {
	return func(m *Manager) {
		m.strict = strict
	}
}

// WithAutoSave makes the middleware call Session.Save after the downstream
// handler returns.
func WithAutoSave(autoSave bool) Option {
	return func(m *Manager) {
		m.autoSave = autoSave
	}
}

// WithMaxAge bounds the signature age of accepted cookies, overriding the
// bound derived from Config.CookieMaxAge. A zero max age accepts tokens
// signed within the current second.
func WithMaxAge(d time.Duration) Option {
	return func(m *Manager) {
		m.maxAge = &d
	}
}

// WithClock replaces time.Now for signing and verification.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithKeyIterations sets the PBKDF2 iteration count of the encryptor.
func WithKeyIterations(n int) Option {
	return func(m *Manager) {
		m.iterations = n
	}
}
