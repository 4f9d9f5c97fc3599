package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const testSecret = "test-secret-key-that-is-long-enough-for-hmac"

func testConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.Secret = testSecret
	return cfg
}

func newManager(t *testing.T, cfg session.Config, opts ...session.Option) *session.Manager {
	t.Helper()

	opts = append([]session.Option{session.WithKeyIterations(1000)}, opts...)
	m, err := session.New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// issueCookie writes a session cookie for id and returns it.
func issueCookie(t *testing.T, m *session.Manager, id string) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	require.NoError(t, m.SetCookie(w, id))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func requestWith(cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}
