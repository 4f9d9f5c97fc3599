// Package signer produces and verifies timestamp-bound HMAC-SHA256 tokens.
//
// A token binds an opaque payload to the moment it was signed:
//
//	payload "." base64url(unix-seconds) "." base64url(HMAC-SHA256(key, payload "." timestamp))
//
// Because the timestamp is covered by the signature, expiry can be enforced at
// verification time without any server-side state. The signing key is derived
// from the application secret with HKDF-SHA256, so the raw secret is never used
// directly as a MAC key. Only one key generation is supported.
//
// # Usage
//
//	s, err := signer.New(secret)
//	if err != nil {
//	    // handle error
//	}
//
//	token := s.Sign("session-id")
//	payload, err := s.Unsign(token, signer.WithMaxAge(24*time.Hour))
//	switch {
//	case errors.Is(err, signer.ErrSignatureExpired):
//	    // too old
//	case errors.Is(err, signer.ErrBadSignature):
//	    // forged, truncated or malformed
//	}
//
// A max age of zero accepts a token verified within the same second it was
// signed: a token is expired only when its age is strictly greater than the
// max age.
package signer
