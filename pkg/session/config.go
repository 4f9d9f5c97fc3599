package session

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/backend"
	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

const minSecretLength = 32

// Config holds session configuration
type Config struct {
	// Secret signs cookies and derives namespaces. At least 32 bytes.
	Secret string `env:"SESSION_SECRET,required"`

	// Backend is a registry identifier: memory, filesystem, keyvalue-remote or database.
	Backend string `env:"SESSION_BACKEND" envDefault:"memory"`

	// Encrypt switches to the encrypting variant: the cookie carries an
	// encrypted session id and entry keys and values are encrypted at rest.
	Encrypt bool `env:"SESSION_ENCRYPT" envDefault:"false"`

	// Salt feeds the encryptor key derivation.
	Salt string `env:"SESSION_SALT" envDefault:"sessionkit"`

	// FSDir is the directory of the default filesystem backend.
	// Empty means a "sessionkit" directory under os.TempDir().
	FSDir string `env:"SESSION_FS_DIR"`

	// EntryTTL is passed to the backend on every write. Zero disables expiry.
	EntryTTL time.Duration `env:"SESSION_ENTRY_TTL" envDefault:"0s"`

	// CleanupInterval is how often backends with a janitor evict expired
	// entries. Zero disables the janitor; expired entries stay hidden on read.
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	CookieName   string `env:"SESSION_COOKIE_NAME" envDefault:"FAPISESSID"`
	CookiePath   string `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	CookieDomain string `env:"SESSION_COOKIE_DOMAIN"`

	// CookieMaxAge sets Max-Age and bounds the signature age. Zero means a
	// browser-session cookie whose signature never ages out.
	CookieMaxAge time.Duration `env:"SESSION_COOKIE_MAX_AGE" envDefault:"0s"`

	// CookieExpires sets an absolute Expires attribute (RFC 3339). Only
	// tokens signed at or after it are rejected: a cookie signed earlier still
	// verifies once the time has passed, so pair it with CookieMaxAge to bound
	// server-side acceptance.
	CookieExpires time.Time `env:"SESSION_COOKIE_EXPIRES"`

	CookieSecure   bool   `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool   `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"false"`
	CookieSameSite string `env:"SESSION_COOKIE_SAME_SITE" envDefault:"lax"`
}

// DefaultConfig returns default session configuration. Secret is left empty.
func DefaultConfig() Config {
	return Config{
		Backend:         backend.Memory,
		Salt:            "sessionkit",
		CleanupInterval: 5 * time.Minute,
		CookieName:      "FAPISESSID",
		CookiePath:      "/",
		CookieSameSite:  "lax",
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("%w: got %d bytes, need at least %d", ErrSecretTooShort, len(c.Secret), minSecretLength)
	}
	if c.Backend == "" {
		return fmt.Errorf("%w: backend is empty", ErrInvalidConfig)
	}
	if c.CookieName == "" {
		return fmt.Errorf("%w: cookie name is empty", ErrInvalidConfig)
	}
	if c.Encrypt && c.Salt == "" {
		return fmt.Errorf("%w: salt is required when encryption is enabled", ErrInvalidConfig)
	}
	if c.CookieMaxAge < 0 || c.EntryTTL < 0 || c.CleanupInterval < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}
	if _, err := cookie.ParseSameSite(c.CookieSameSite); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// cookieOptions maps the cookie attributes onto cookie.Options.
func (c Config) cookieOptions() []cookie.Option {
	sameSite, _ := cookie.ParseSameSite(c.CookieSameSite)

	return []cookie.Option{
		cookie.WithPath(c.CookiePath),
		cookie.WithDomain(c.CookieDomain),
		cookie.WithMaxAge(int(c.CookieMaxAge / time.Second)),
		cookie.WithExpires(c.CookieExpires),
		cookie.WithSecure(c.CookieSecure),
		cookie.WithHTTPOnly(c.CookieHTTPOnly),
		cookie.WithSameSite(sameSite),
	}
}
