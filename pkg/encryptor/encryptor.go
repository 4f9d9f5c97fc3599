package encryptor

import (
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"unicode/utf8"

	siv "github.com/secure-io/siv-go"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the size of the PBKDF2 output. A 32-byte key selects AES-128-SIV.
	KeySize = 32

	// DefaultIterations is the PBKDF2 iteration count used when WithIterations is not set.
	DefaultIterations = 100_000

	// DefaultHeader is the associated data bound into every ciphertext.
	DefaultHeader = "fastsession"
)

var encoding = base64.RawURLEncoding.Strict()

// Encryptor performs deterministic authenticated encryption of strings.
// It is safe for concurrent use.
type Encryptor struct {
	aead   cipher.AEAD
	nonce  []byte
	header []byte
}

// New derives the AES-SIV key from secret and salt.
func New(secret string, salt []byte, opts ...Option) (*Encryptor, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}

	o := options{
		iterations: DefaultIterations,
		header:     DefaultHeader,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.iterations < 1 {
		return nil, ErrInvalidIterations
	}

	key := pbkdf2.Key([]byte(secret), salt, o.iterations, KeySize, sha256.New)
	defer clearBytes(key)

	aead, err := siv.NewCMAC(key)
	if err != nil {
		return nil, errors.Join(errors.New("encryptor: cipher setup failed"), err)
	}

	// A fixed nonce keeps AES-SIV in its deterministic mode.
	return &Encryptor{
		aead:   aead,
		nonce:  make([]byte, aead.NonceSize()),
		header: []byte(o.header),
	}, nil
}

// Encrypt returns the deterministic ciphertext of plaintext.
// The plaintext must be valid UTF-8; the empty string is allowed.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if !utf8.ValidString(plaintext) {
		return "", ErrInvalidPlaintext
	}

	sealed := e.aead.Seal(nil, e.nonce, []byte(plaintext), e.header)
	return encoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any tampering yields ErrDecryptionFailed.
func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	raw, err := encoding.DecodeString(ciphertext)
	if err != nil || len(raw) < e.aead.Overhead() {
		return "", ErrDecryptionFailed
	}

	plain, err := e.aead.Open(nil, e.nonce, raw, e.header)
	if err != nil {
		return "", errors.Join(ErrDecryptionFailed, err)
	}
	if !utf8.Valid(plain) {
		return "", ErrDecryptionFailed
	}

	return string(plain), nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
