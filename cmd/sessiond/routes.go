package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/metrics"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type router struct {
	manager *session.Manager
	log     *slog.Logger
}

// newRouter mounts the session endpoints together with health and metrics
// endpoints. Session endpoints other than /init and /close require a
// valid session cookie.
func newRouter(m *session.Manager, log *slog.Logger, gatherer prometheus.Gatherer, checks ...httpserver.Check) http.Handler {
	rt := &router{manager: m, log: log}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(accessLog(log))

	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, checks...))
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	}

	r.Group(func(r chi.Router) {
		r.Use(m.Middleware)

		r.Post("/init", rt.init)
		r.Post("/close", rt.close)

		r.Group(func(r chi.Router) {
			r.Use(m.RequireSession)

			r.Post("/set/{key}/{value}", rt.set)
			r.Post("/get/{key}", rt.get)
			r.Post("/remove/{key}", rt.remove)
			r.Post("/flush", rt.flush)
		})
	})

	return r
}

func (rt *router) init(w http.ResponseWriter, r *http.Request) {
	id := session.NewID()
	if _, err := rt.manager.LoadSession(r.Context(), id); err != nil {
		rt.fail(w, r, "failed to open session", err)
		return
	}
	if err := rt.manager.SetCookie(w, id); err != nil {
		rt.fail(w, r, "failed to set session cookie", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (rt *router) set(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	if err := sess.Set(r.Context(), chi.URLParam(r, "key"), chi.URLParam(r, "value")); err != nil {
		rt.fail(w, r, "failed to set session value", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (rt *router) get(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	key := chi.URLParam(r, "key")

	var value any
	found, err := sess.Get(r.Context(), key, &value)
	if err != nil {
		rt.fail(w, r, "failed to get session value", err)
		return
	}
	if !found {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{key: value})
}

func (rt *router) remove(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	key := chi.URLParam(r, "key")

	n, err := sess.Exists(r.Context(), key)
	if err != nil {
		rt.fail(w, r, "failed to check session key", err)
		return
	}
	if n == 0 {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	if err := sess.Delete(r.Context(), key); err != nil {
		rt.fail(w, r, "failed to delete session value", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (rt *router) flush(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	if err := sess.Clear(r.Context()); err != nil {
		rt.fail(w, r, "failed to clear session", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// close destroys the attached session, if any, and expires the cookie.
func (rt *router) close(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		if err := sess.Destroy(r.Context()); err != nil {
			rt.fail(w, r, "failed to destroy session", err)
			return
		}
	}
	rt.manager.UnsetCookie(w)
	w.WriteHeader(http.StatusOK)
}

func (rt *router) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	rt.log.ErrorContext(r.Context(), msg, logger.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.InfoContext(r.Context(), "request served",
				logger.HTTPRequest(r.Method, r.URL.Path, ww.Status()),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
