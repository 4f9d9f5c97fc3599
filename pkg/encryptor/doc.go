// Package encryptor provides deterministic, tamper-evident symmetric
// encryption for short UTF-8 strings such as session identifiers, storage
// keys and serialized session values.
//
// Determinism is the point: encrypting the same plaintext with the same
// secret and salt always yields the same ciphertext, so the output can be used
// both as a value cipher and as a lookup-key derivation function (for example
// to derive a storage namespace from a session id).
//
// # Architecture
//
//  1. Key derivation: PBKDF2-HMAC-SHA256 stretches the secret and salt into a
//     32-byte key.
//  2. Encryption: AES-SIV (RFC 5297, github.com/secure-io/siv-go) seals the
//     plaintext with the header as associated data. The synthetic IV doubles
//     as the authentication tag. The wire format is base64url(iv || ciphertext)
//     without padding, safe to embed in cookies and storage keys.
//
// Any modification, truncation or foreign-key ciphertext fails with
// ErrDecryptionFailed.
//
// # Usage
//
//	enc, err := encryptor.New(secret, []byte("session-salt"))
//	if err != nil {
//	    // handle error
//	}
//
//	ct, _ := enc.Encrypt("user-42")
//	pt, err := enc.Decrypt(ct) // "user-42"
//
// # Error Handling
//
// All failures of Decrypt wrap ErrDecryptionFailed (ErrInvalidToken is the same
// sentinel). Construction errors are ErrEmptySecret, ErrEmptySalt and
// ErrInvalidIterations.
package encryptor
