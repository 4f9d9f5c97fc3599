package signer

import "time"

// Option configures a Signer.
type Option func(*Signer)

// WithSalt sets the HKDF salt used to derive the signing key from the secret.
// Signers with different salts never accept each other's tokens.
func WithSalt(salt string) Option {
	return func(s *Signer) {
		s.salt = salt
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// UnsignOption tunes a single Unsign call.
type UnsignOption func(*unsignOptions)

type unsignOptions struct {
	maxAge    time.Duration
	hasMaxAge bool
	expiresAt time.Time
}

// WithMaxAge rejects tokens older than d (whole seconds).
func WithMaxAge(d time.Duration) UnsignOption {
	return func(o *unsignOptions) {
		o.maxAge = d
		o.hasMaxAge = true
	}
}

// WithExpiresAt rejects tokens signed at or after t. It does not compare t
// with the current time, so a token signed before t verifies forever unless
// WithMaxAge also applies. A zero t disables the check.
func WithExpiresAt(t time.Time) UnsignOption {
	return func(o *unsignOptions) {
		o.expiresAt = t
	}
}
