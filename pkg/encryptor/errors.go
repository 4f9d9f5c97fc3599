package encryptor

import "errors"

var (
	ErrEmptySecret       = errors.New("encryptor.empty_secret")
	ErrEmptySalt         = errors.New("encryptor.empty_salt")
	ErrInvalidIterations = errors.New("encryptor.invalid_iterations")
	ErrInvalidPlaintext  = errors.New("encryptor.invalid_plaintext")

	// ErrDecryptionFailed is returned for tampered, truncated, malformed or
	// foreign-key ciphertexts. It never carries partial plaintext.
	ErrDecryptionFailed = errors.New("encryptor.decryption_failed")

	// ErrInvalidToken is an alias of ErrDecryptionFailed.
	ErrInvalidToken = ErrDecryptionFailed
)
