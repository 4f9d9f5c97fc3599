package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type serverConfig struct {
	Addr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"5s"`
	Debug   bool          `env:"DEBUG" envDefault:"false"`
}

type requiredConfig struct {
	Secret string `env:"SECRET,required"`
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	var cfg serverConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{})))

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.False(t, cfg.Debug)
}

func TestLoad_Environment(t *testing.T) {
	t.Parallel()

	var cfg serverConfig
	err := config.Load(&cfg, config.WithEnvironment(map[string]string{
		"HTTP_ADDR":    ":9090",
		"HTTP_TIMEOUT": "250ms",
		"DEBUG":        "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.True(t, cfg.Debug)
}

func TestLoad_Prefix(t *testing.T) {
	t.Parallel()

	var cfg serverConfig
	err := config.Load(&cfg,
		config.WithPrefix("SESSIOND_"),
		config.WithEnvironment(map[string]string{"SESSIOND_HTTP_ADDR": ":7070", "HTTP_ADDR": ":1"}),
	)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()

		var cfg *serverConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("required", func(t *testing.T) {
		t.Parallel()

		var cfg requiredConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Parallel()

		var cfg serverConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{"HTTP_TIMEOUT": "soon"}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("missing env file", func(t *testing.T) {
		t.Parallel()

		var cfg serverConfig
		err := config.Load(&cfg, config.WithEnvFiles(filepath.Join(t.TempDir(), "absent.env")))
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SECRET=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SECRET") })

	var cfg requiredConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles(path)))
	assert.Equal(t, "from-file", cfg.Secret)
}

func TestLoad_ProcessEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:1111\n"), 0o600))
	t.Setenv("HTTP_ADDR", ":2222")

	var cfg serverConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles(path)))
	assert.Equal(t, ":2222", cfg.Addr)
}

func TestLoad_SessionConfig(t *testing.T) {
	t.Parallel()

	var cfg session.Config
	err := config.Load(&cfg, config.WithEnvironment(map[string]string{
		"SESSION_SECRET":           "0123456789abcdef0123456789abcdef",
		"SESSION_BACKEND":          "filesystem",
		"SESSION_COOKIE_MAX_AGE":   "1h",
		"SESSION_COOKIE_SAME_SITE": "strict",
		"SESSION_COOKIE_EXPIRES":   "2030-01-02T03:04:05Z",
	}))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "filesystem", cfg.Backend)
	assert.Equal(t, "FAPISESSID", cfg.CookieName)
	assert.Equal(t, "/", cfg.CookiePath)
	assert.Equal(t, time.Hour, cfg.CookieMaxAge)
	assert.Equal(t, "strict", cfg.CookieSameSite)
	assert.Equal(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC), cfg.CookieExpires.UTC())
	assert.Equal(t, "sessionkit", cfg.Salt)
}

func TestMustLoad(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
	})
}
