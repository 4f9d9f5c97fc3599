package session

import (
	"errors"

	"github.com/dmitrymomot/sessionkit/pkg/backend"
)

var (
	// ErrInvalidCookie indicates a session cookie that failed verification.
	// It is always joined with the underlying cause.
	ErrInvalidCookie = errors.New("session.invalid_cookie")

	// ErrMalformedCookie indicates a cookie value that is not a valid token encoding.
	ErrMalformedCookie = errors.New("session.malformed_cookie")

	// ErrNoCookie indicates the request carries no session cookie.
	ErrNoCookie = errors.New("session.no_cookie")

	// ErrMissingSession indicates a handler required a session but none was attached.
	ErrMissingSession = errors.New("session.missing")

	// ErrEmptySessionID indicates an empty session id.
	ErrEmptySessionID = errors.New("session.empty_id")

	ErrSecretTooShort = errors.New("session.secret_too_short")
	ErrInvalidConfig  = errors.New("session.invalid_config")

	// ErrBackendImport indicates an unknown backend identifier.
	ErrBackendImport = backend.ErrBackendImport

	// ErrCorruptSessionData indicates a stored value that cannot be decoded.
	ErrCorruptSessionData = backend.ErrCorruptSessionData
)
