package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// Middleware attaches the session named by the request cookie.
//
//   - No cookie: the request continues without a session.
//   - Valid cookie: the session is loaded and stored in the request context.
//   - Invalid cookie: the InvalidCookieHandler decides; without one the
//     request continues without a session, or gets 400 in strict mode.
//   - Any other failure: the UndefinedErrorHandler decides; without one the
//     error is logged and the request ends with 500.
//
// Missing sessions are resolved lazily by Session and RequireSession.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(withState(r.Context()))
		ctx := r.Context()

		if !m.HasCookie(r) {
			m.observer.ObserveRequest(OutcomeNoCookie)
			next.ServeHTTP(w, r)
			return
		}

		sessionID, err := m.GetCookie(r)
		if err == nil {
			sessionID, err = m.PostprocessCookie(ctx, r, sessionID)
		}
		if err != nil {
			if errors.Is(err, ErrInvalidCookie) {
				m.handleInvalidCookie(w, r, next, err)
				return
			}
			m.handleUndefinedError(w, r, next, err)
			return
		}

		sess, err := m.LoadSession(ctx, sessionID)
		if err != nil {
			m.handleUndefinedError(w, r, next, err)
			return
		}

		m.observer.ObserveRequest(OutcomeAttached)
		next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))

		if m.autoSave {
			// The request context may already be canceled once the handler returns.
			if err := sess.Save(context.WithoutCancel(ctx)); err != nil {
				m.log.ErrorContext(ctx, "failed to save session", logger.Error(err))
			}
		}
	})
}

func (m *Manager) handleInvalidCookie(w http.ResponseWriter, r *http.Request, next http.Handler, err error) {
	m.observer.ObserveRequest(OutcomeInvalidCookie)
	m.log.DebugContext(r.Context(), "invalid session cookie", logger.Error(err))

	if m.invalidCookie != nil {
		if h := m.invalidCookie.HandleInvalidCookie(r, err); h != nil {
			h.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
		return
	}

	if m.strict {
		m.observer.ObserveRequest(OutcomeRejected)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	next.ServeHTTP(w, r)
}

func (m *Manager) handleUndefinedError(w http.ResponseWriter, r *http.Request, next http.Handler, err error) {
	m.observer.ObserveRequest(OutcomeError)

	if m.undefinedError != nil {
		if h := m.undefinedError.HandleUndefinedError(r, err); h != nil {
			h.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
		return
	}

	m.log.ErrorContext(r.Context(), "failed to load session", logger.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Session returns the session attached by Middleware. When there is none it
// consults the MissingSessionHandler, once per request behind Middleware.
// Without a handler it returns ErrMissingSession.
func (m *Manager) Session(r *http.Request) (*Session, error) {
	ctx := r.Context()
	if sess, ok := FromContext(ctx); ok {
		return sess, nil
	}

	st := stateFromContext(ctx)
	if st == nil {
		return m.resolveMissing(r)
	}

	st.once.Do(func() {
		st.sess, st.err = m.resolveMissing(r)
	})
	return st.sess, st.err
}

func (m *Manager) resolveMissing(r *http.Request) (*Session, error) {
	if m.missingSession == nil {
		return nil, ErrMissingSession
	}

	sess, err := m.missingSession.HandleMissingSession(r)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrMissingSession
	}
	return sess, nil
}

// RequireSession rejects requests without a session: 401 for ErrMissingSession,
// 500 for any other resolution error.
func (m *Manager) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Session(r)
		if err != nil {
			if errors.Is(err, ErrMissingSession) {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			m.log.ErrorContext(r.Context(), "failed to resolve missing session", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}
