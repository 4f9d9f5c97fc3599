package signer

import "errors"

var (
	ErrEmptySecret = errors.New("signer.empty_secret")

	// ErrBadSignature covers forged, truncated and malformed tokens.
	ErrBadSignature = errors.New("signer.bad_signature")

	// ErrSignatureExpired is returned for authentic tokens outside their validity window.
	ErrSignatureExpired = errors.New("signer.signature_expired")
)
