package session

import (
	"context"
	"net/http"
)

// CookieLoader post-processes the verified cookie payload before it is used
// as a session id. Returning an error that wraps ErrInvalidCookie routes the
// request to invalid-cookie handling; any other error is an undefined error.
type CookieLoader interface {
	LoadCookie(ctx context.Context, r *http.Request, sessionID string) (string, error)
}

// CookieLoaderFunc adapts a function to CookieLoader.
type CookieLoaderFunc func(ctx context.Context, r *http.Request, sessionID string) (string, error)

func (f CookieLoaderFunc) LoadCookie(ctx context.Context, r *http.Request, sessionID string) (string, error) {
	return f(ctx, r, sessionID)
}

// InvalidCookieHandler is called once per request whose cookie fails
// verification. err wraps ErrInvalidCookie and the specific cause
// (signer.ErrBadSignature, signer.ErrSignatureExpired,
// encryptor.ErrDecryptionFailed or ErrMalformedCookie).
//
// A non-nil handler is served instead of the downstream chain. A nil handler
// lets the request through without a session. Streaming endpoints can hijack
// the connection and close it rather than writing a body.
type InvalidCookieHandler interface {
	HandleInvalidCookie(r *http.Request, err error) http.Handler
}

// InvalidCookieHandlerFunc adapts a function to InvalidCookieHandler.
type InvalidCookieHandlerFunc func(r *http.Request, err error) http.Handler

func (f InvalidCookieHandlerFunc) HandleInvalidCookie(r *http.Request, err error) http.Handler {
	return f(r, err)
}

// MissingSessionHandler resolves a request that needs a session but has none.
// It runs lazily, at most once per request, on the first call to
// Manager.Session. It may return a session (for example an anonymous one) or
// an error.
type MissingSessionHandler interface {
	HandleMissingSession(r *http.Request) (*Session, error)
}

// MissingSessionHandlerFunc adapts a function to MissingSessionHandler.
type MissingSessionHandlerFunc func(r *http.Request) (*Session, error)

func (f MissingSessionHandlerFunc) HandleMissingSession(r *http.Request) (*Session, error) {
	return f(r)
}

// UndefinedErrorHandler receives failures that are not cookie verification
// errors, such as backend I/O errors while loading the session. Return
// semantics match InvalidCookieHandler.
type UndefinedErrorHandler interface {
	HandleUndefinedError(r *http.Request, err error) http.Handler
}

// UndefinedErrorHandlerFunc adapts a function to UndefinedErrorHandler.
type UndefinedErrorHandlerFunc func(r *http.Request, err error) http.Handler

func (f UndefinedErrorHandlerFunc) HandleUndefinedError(r *http.Request, err error) http.Handler {
	return f(r, err)
}

// Outcome classifies how the middleware treated a request.
type Outcome string

const (
	OutcomeNoCookie      Outcome = "no_cookie"
	OutcomeAttached      Outcome = "attached"
	OutcomeInvalidCookie Outcome = "invalid_cookie"
	OutcomeRejected      Outcome = "rejected"
	OutcomeError         Outcome = "error"
)

// Observer receives middleware and backend events, typically to export metrics.
type Observer interface {
	ObserveRequest(outcome Outcome)
	ObserveLoad(backend string, err error)
	ObserveSave(backend string, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(Outcome)    {}
func (nopObserver) ObserveLoad(string, error) {}
func (nopObserver) ObserveSave(string, error) {}
