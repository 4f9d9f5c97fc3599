// Package cookie is a thin HTTP cookie manager for Go applications.
//
// It wraps net/http's http.Cookie with a set of default attributes, per-call
// overrides and an optional Codec that encodes values on the way out and
// verifies them on the way in.
//
// # Overview
//
// A Manager is created once with its defaults:
//
//   - Path "/"
//   - SameSite Lax
//   - Secure and HttpOnly off
//   - no Max-Age, no Expires
//
// Once created you can:
//
//   - Set(), Get(), Has(), Delete() for plain cookies
//   - SetEncoded(), GetDecoded() for cookies passed through the Codec
//
// Cookies that fail http.Cookie validation (bad name, control bytes in the
// value, malformed domain) are never written; Set returns ErrInvalidCookie.
//
// # Usage
//
//	import "github.com/dmitrymomot/sessionkit/pkg/cookie"
//
//	man := cookie.New(nil, cookie.WithSecure(true), cookie.WithHTTPOnly(true))
//
//	http.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
//	    _ = man.Set(w, "theme", "dark", cookie.WithMaxAge(3600))
//	})
//
//	http.HandleFunc("/clear", func(w http.ResponseWriter, r *http.Request) {
//	    man.Delete(w, "theme")
//	})
//
// # Deleting cookies
//
// Delete writes an empty value with Max-Age=-1 and an epoch Expires using the
// same attribute resolution as Set. A browser only removes the cookie when
// path and domain match the original, so a mismatch silently leaves it in
// place.
//
// # Same-site policy
//
// ParseSameSite accepts "strict", "lax" and "none" so the policy can be read
// from configuration.
//
// # Error Handling
//
// Sentinel errors (ErrCookieNotFound, ErrInvalidCookie, ErrNoCodec,
// ErrInvalidSameSite) can be matched with errors.Is.
package cookie
