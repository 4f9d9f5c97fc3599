package cookie

import (
	"errors"
	"net/http"
	"time"
)

// Codec turns a cookie payload into its wire value and back.
// Decode must reject values it did not produce.
type Codec interface {
	Encode(value string) (string, error)
	Decode(raw string) (string, error)
}

// Manager reads and writes cookies with a fixed set of default attributes.
// Every write accepts per-call overrides.
type Manager struct {
	defaults Options
	codec    Codec
}

// New creates a Manager. The codec is optional and only used by SetEncoded and
// GetDecoded.
func New(codec Codec, opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		defaults: applyOptions(defaults, opts),
		codec:    codec,
	}
}

// Defaults returns a copy of the default attributes.
func (m *Manager) Defaults() Options {
	return m.defaults
}

// Cookie builds the cookie Set would write.
func (m *Manager) Cookie(name, value string, opts ...Option) *http.Cookie {
	options := applyOptions(m.defaults, opts)

	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}
	// Both attributes are sent when set; user agents let Max-Age win.
	if !options.Expires.IsZero() {
		c.Expires = options.Expires.UTC()
	}
	return c
}

// Set writes a cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	c := m.Cookie(name, value, opts...)
	if err := c.Valid(); err != nil {
		return errors.Join(ErrInvalidCookie, err)
	}

	http.SetCookie(w, c)
	return nil
}

// Get returns the raw value of the named cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Has reports whether the request carries the named cookie.
func (m *Manager) Has(r *http.Request, name string) bool {
	_, err := r.Cookie(name)
	return err == nil
}

// Delete expires the named cookie. Browsers only drop it when path and domain
// match the ones it was set with, so pass the same overrides used for Set.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	options := applyOptions(m.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
		Secure:   options.Secure,
	})
}

// SetEncoded writes value through the codec.
func (m *Manager) SetEncoded(w http.ResponseWriter, name, value string, opts ...Option) error {
	if m.codec == nil {
		return ErrNoCodec
	}

	encoded, err := m.codec.Encode(value)
	if err != nil {
		return err
	}
	return m.Set(w, name, encoded, opts...)
}

// GetDecoded reads the named cookie and decodes it with the codec.
// Codec failures are returned as-is.
func (m *Manager) GetDecoded(r *http.Request, name string) (string, error) {
	if m.codec == nil {
		return "", ErrNoCodec
	}

	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.codec.Decode(raw)
}
