package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const (
	// Separator joins the payload, timestamp and signature of a token.
	Separator = "."

	defaultSalt = "sessionkit.signer"
	keyInfo     = "signer"
	keySize     = 32
)

var encoding = base64.RawURLEncoding.Strict()

// Signer signs and verifies timestamped tokens. It is safe for concurrent use.
type Signer struct {
	salt string
	key  []byte
	now  func() time.Time
}

// New creates a Signer whose key is derived from secret.
func New(secret string, opts ...Option) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	s := &Signer{
		salt: defaultSalt,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.key = make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), []byte(s.salt), []byte(keyInfo)), s.key); err != nil {
		return nil, err
	}

	return s, nil
}

// Sign signs payload with the current time.
func (s *Signer) Sign(payload string) string {
	return s.SignAt(payload, s.now())
}

// SignAt signs payload with an explicit timestamp (second resolution).
func (s *Signer) SignAt(payload string, t time.Time) string {
	value := payload + Separator + encodeTimestamp(t.Unix())
	return value + Separator + encoding.EncodeToString(s.mac(value))
}

// Unsign verifies token and returns its payload.
func (s *Signer) Unsign(token string, opts ...UnsignOption) (string, error) {
	var o unsignOptions
	for _, opt := range opts {
		opt(&o)
	}

	payload, signedAt, err := s.verify(token)
	if err != nil {
		return "", err
	}

	if o.hasMaxAge {
		age := s.now().Unix() - signedAt
		if age < 0 || age > int64(o.maxAge/time.Second) {
			return "", ErrSignatureExpired
		}
	}
	if !o.expiresAt.IsZero() && signedAt >= o.expiresAt.Unix() {
		return "", ErrSignatureExpired
	}

	return payload, nil
}

// verify checks the signature and splits the token from the right, so payloads
// may contain the separator.
func (s *Signer) verify(token string) (string, int64, error) {
	i := strings.LastIndex(token, Separator)
	if i < 0 {
		return "", 0, ErrBadSignature
	}
	value, sig := token[:i], token[i+1:]

	expected := encoding.EncodeToString(s.mac(value))
	if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) != 1 {
		return "", 0, ErrBadSignature
	}

	j := strings.LastIndex(value, Separator)
	if j < 0 {
		return "", 0, ErrBadSignature
	}
	signedAt, ok := decodeTimestamp(value[j+1:])
	if !ok {
		return "", 0, ErrBadSignature
	}

	return value[:j], signedAt, nil
}

func (s *Signer) mac(value string) []byte {
	m := hmac.New(sha256.New, s.key)
	m.Write([]byte(value))
	return m.Sum(nil)
}

func encodeTimestamp(ts int64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(ts))
	b := buf[:]
	for len(b) > 1 && b[0] == 0 {
		b = b[1:]
	}
	return encoding.EncodeToString(b)
}

func decodeTimestamp(s string) (int64, bool) {
	raw, err := encoding.DecodeString(s)
	if err != nil || len(raw) == 0 || len(raw) > 8 {
		return 0, false
	}
	var buf [8]byte
	copy(buf[8-len(raw):], raw)
	return int64(binary.BigEndian.Uint64(buf[:])), true
}
