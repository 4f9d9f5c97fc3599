// Package session implements server-side sessions keyed by a signed cookie.
//
// The cookie carries only a session id, signed with a timestamp and
// optionally encrypted. The id maps to a namespace inside a pluggable
// storage backend (see package backend); the session's keys and values live
// there, never in the cookie.
//
// # Architecture
//
//	┌────────┐  cookie   ┌────────────┐  namespace  ┌─────────┐
//	│ Client │ ────────► │  Manager   │ ──────────► │ Backend │
//	└────────┘           └────────────┘             └─────────┘
//	                           │
//	                           ▼
//	                      ┌─────────┐
//	                      │ Session │  Get / Set / Delete / Keys / Clear ...
//	                      └─────────┘
//
// A Manager is built once from a Config. It resolves the configured backend
// identifier in a backend.Registry right away, so an unknown identifier
// fails at startup with ErrBackendImport.
//
// # Variants
//
// In the default variant the cookie payload is the session id, the namespace
// is hex(sha256(secret ":" id)), entry keys are SHA-256 digests of the
// logical keys, and values are stored as JSON.
//
// With Config.Encrypt the payload, the namespace, entry keys and values all
// go through a deterministic encryptor, so Session.Keys can return the
// original keys.
//
// # Request flow
//
// Manager.Middleware runs the per-request protocol:
//
//   - no cookie: continue without a session
//   - valid cookie: load the session and attach it to the context
//   - invalid cookie: InvalidCookieHandler, else continue (or 400 with WithStrict)
//   - other failure: UndefinedErrorHandler, else log and respond 500
//
// Handlers that need a session call Manager.Session or sit behind
// RequireSession. A missing session is resolved lazily through the
// MissingSessionHandler the first time it is asked for.
//
// # Usage
//
//	cfg := session.DefaultConfig()
//	cfg.Secret = os.Getenv("SESSION_SECRET")
//
//	mgr, err := session.New(cfg, session.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	defer mgr.Close()
//
//	mux.Handle("/login", mgr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    id := session.NewID()
//	    sess, err := mgr.LoadSession(r.Context(), id)
//	    if err != nil { ... }
//	    _ = sess.Set(r.Context(), "user", "alice")
//	    _ = sess.Save(r.Context())
//	    _ = mgr.SetCookie(w, id)
//	})))
//
// # Saving
//
// Writes are never flushed implicitly. Write-through backends (memory, redis,
// postgres) persist on every call; the filesystem backend keeps a working
// copy that reaches disk on Session.Save. WithAutoSave makes the middleware
// call Save after the handler returns.
//
// # Errors
//
// Cookie verification errors wrap ErrInvalidCookie joined with the cause
// from package signer or encryptor. Backend errors are passed through
// unchanged. Use errors.Is to match them.
package session
