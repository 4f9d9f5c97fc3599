package session

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/sessionkit/pkg/encryptor"
	"github.com/dmitrymomot/sessionkit/pkg/signer"
)

// keySeparator joins a namespace and a derived entry key.
const keySeparator = ":"

var tokenEncoding = base64.RawURLEncoding.Strict()

// tokenCodec turns a session id into a cookie value and back. It implements
// cookie.Codec.
type tokenCodec struct {
	signer *signer.Signer
	enc    *encryptor.Encryptor
	unsign []signer.UnsignOption
}

func (c *tokenCodec) Encode(sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySessionID
	}

	payload := sessionID
	if c.enc != nil {
		var err error
		if payload, err = c.enc.Encrypt(sessionID); err != nil {
			return "", err
		}
	}

	return tokenEncoding.EncodeToString([]byte(c.signer.Sign(payload))), nil
}

func (c *tokenCodec) Decode(raw string) (string, error) {
	token, err := tokenEncoding.DecodeString(raw)
	if err != nil {
		return "", errors.Join(ErrInvalidCookie, ErrMalformedCookie)
	}

	payload, err := c.signer.Unsign(string(token), c.unsign...)
	if err != nil {
		return "", errors.Join(ErrInvalidCookie, err)
	}

	sessionID := payload
	if c.enc != nil {
		if sessionID, err = c.enc.Decrypt(payload); err != nil {
			return "", errors.Join(ErrInvalidCookie, err)
		}
	}

	if sessionID == "" {
		return "", errors.Join(ErrInvalidCookie, ErrEmptySessionID)
	}
	return sessionID, nil
}

// keyCodec maps logical keys to backend keys inside one namespace.
type keyCodec struct {
	namespace string
	enc       *encryptor.Encryptor
}

func (k keyCodec) prefix() string {
	return k.namespace + keySeparator
}

func (k keyCodec) derive(key string) (string, error) {
	if k.enc != nil {
		token, err := k.enc.Encrypt(key)
		if err != nil {
			return "", err
		}
		return k.prefix() + token, nil
	}

	sum := sha256.Sum256([]byte(key))
	return k.prefix() + hex.EncodeToString(sum[:]), nil
}

func (k keyCodec) deriveAll(keys []string) ([]string, error) {
	out := make([]string, len(keys))
	for i, key := range keys {
		derived, err := k.derive(key)
		if err != nil {
			return nil, err
		}
		out[i] = derived
	}
	return out, nil
}

// logical recovers the caller's key in the encrypting variant and the
// derived token otherwise.
func (k keyCodec) logical(backendKey string) (string, error) {
	token, ok := strings.CutPrefix(backendKey, k.prefix())
	if !ok {
		return "", fmt.Errorf("%w: key outside namespace", ErrCorruptSessionData)
	}
	if k.enc == nil {
		return token, nil
	}

	key, err := k.enc.Decrypt(token)
	if err != nil {
		return "", errors.Join(ErrCorruptSessionData, err)
	}
	return key, nil
}

// valueCodec serialises values as JSON, encrypted when an encryptor is set.
type valueCodec struct {
	enc *encryptor.Encryptor
}

func (v valueCodec) encode(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("session: encode value: %w", err)
	}
	if v.enc == nil {
		return data, nil
	}

	ct, err := v.enc.Encrypt(string(data))
	if err != nil {
		return nil, err
	}
	return []byte(ct), nil
}

// decode returns the JSON form of a stored value.
func (v valueCodec) decode(raw []byte) ([]byte, error) {
	if v.enc == nil {
		return raw, nil
	}

	pt, err := v.enc.Decrypt(string(raw))
	if err != nil {
		return nil, errors.Join(ErrCorruptSessionData, err)
	}
	return []byte(pt), nil
}

// namespaceFor derives the storage namespace of a session id.
func namespaceFor(secret, sessionID string, enc *encryptor.Encryptor) (string, error) {
	if enc != nil {
		return enc.Encrypt(sessionID)
	}

	sum := sha256.Sum256([]byte(secret + keySeparator + sessionID))
	return hex.EncodeToString(sum[:]), nil
}
