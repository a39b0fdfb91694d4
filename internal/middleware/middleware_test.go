package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/travel-sync/internal/config"
	"github.com/deppfellow/travel-sync/internal/errs"
	"github.com/deppfellow/travel-sync/internal/server"
	"github.com/deppfellow/travel-sync/internal/service"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(access config.AccessConfig) *server.Server {
	l := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{CORSAllowedOrigins: "https://a.example, https://b.example"},
			Access: access,
		},
		Logger: &l,
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"peer address", "192.0.2.10:5555", "", "192.0.2.10"},
		{"ipv6 peer", "[2001:db8::1]:443", "", "2001:db8::1"},
		{"first forwarded entry", "192.0.2.10:5555", " 203.0.113.5 , 10.0.0.1", "203.0.113.5"},
		{"single forwarded entry", "192.0.2.10:5555", "198.51.100.7", "198.51.100.7"},
		{"peer without port", "192.0.2.10", "", "192.0.2.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set(echo.HeaderXForwardedFor, tt.xff)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}

func runAccess(t *testing.T, access config.AccessConfig, path string, header http.Header) (bool, error) {
	t.Helper()

	s := newTestServer(access)
	mw := NewAccessMiddleware(s, service.NewAccessService(s))

	e := echo.New()
	e.IPExtractor = ClientIP

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := mw.RequireAccess(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return called, err
}

func TestRequireAccess(t *testing.T) {
	keyed := config.AccessConfig{APIKey: "k1"}
	listed := config.AccessConfig{AllowedIPs: "192.0.2.1"}

	t.Run("open by default", func(t *testing.T) {
		called, err := runAccess(t, config.AccessConfig{}, "/api/travel_plans", nil)
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("missing key", func(t *testing.T) {
		called, err := runAccess(t, keyed, "/api/travel_plans", nil)
		assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
		assert.False(t, called)
	})

	t.Run("matching key", func(t *testing.T) {
		called, err := runAccess(t, keyed, "/api/expenses", http.Header{"X-Api-Key": {"k1"}})
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("outside prefix bypasses", func(t *testing.T) {
		for _, path := range []string{"/health", "/status", "/docs", "/static/openapi.json", "/apis"} {
			called, err := runAccess(t, config.AccessConfig{APIKey: "k1", AllowedIPs: "10.0.0.1"}, path, nil)
			require.NoError(t, err, path)
			assert.True(t, called, path)
		}
	})

	t.Run("allowlisted peer", func(t *testing.T) {
		called, err := runAccess(t, listed, "/api/travel_plans", nil)
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("forwarded address not listed", func(t *testing.T) {
		called, err := runAccess(t, listed, "/api/travel_plans", http.Header{"X-Forwarded-For": {"10.0.0.8"}})
		assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
		assert.False(t, called)
	})
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestGetLoggerWithoutEnhancer(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
	assert.Empty(t, GetRequestID(c))
}

func handleError(t *testing.T, err error, method string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	global := NewGlobalMiddlewares(newTestServer(config.AccessConfig{}))
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, "/api/travel_plans", nil), rec)

	global.GlobalErrorHandler(err, c)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestGlobalErrorHandler(t *testing.T) {
	t.Run("api error passes through", func(t *testing.T) {
		rec, body := handleError(t, errs.NewForbiddenError("Forbidden", false), http.MethodGet)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "forbidden", body["error"])
		assert.Equal(t, "FORBIDDEN", body["code"])
	})

	t.Run("echo not found", func(t *testing.T) {
		rec, body := handleError(t, echo.ErrNotFound, http.MethodGet)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", body["error"])
		assert.Equal(t, "Route not found", body["message"])
	})

	t.Run("echo method not allowed", func(t *testing.T) {
		rec, body := handleError(t, echo.ErrMethodNotAllowed, http.MethodGet)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "METHOD_NOT_ALLOWED", body["code"])
	})

	t.Run("database error is opaque", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint", TableName: "travel_plans"}
		rec, body := handleError(t, pgErr, http.MethodGet)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "server_error", body["error"])
		assert.Equal(t, "Internal Server Error", body["message"])
		assert.NotContains(t, rec.Body.String(), "duplicate")
	})

	t.Run("timeout is opaque", func(t *testing.T) {
		rec, body := handleError(t, context.DeadlineExceeded, http.MethodGet)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "server_error", body["error"])
	})

	t.Run("head has no body", func(t *testing.T) {
		rec, _ := handleError(t, errs.NewUnauthorizedError("Unauthorized", false), http.MethodHead)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, rec.Body.Len())
	})
}

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	global := NewGlobalMiddlewares(newTestServer(config.AccessConfig{}))
	e := echo.New()
	e.Use(global.CORS())
	e.GET("/api/travel_plans", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/travel_plans", nil)
	req.Header.Set(echo.HeaderOrigin, "https://b.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "https://b.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))

	req = httptest.NewRequest(http.MethodGet, "/api/travel_plans", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	rl := NewRateLimitMiddleware(newTestServer(config.AccessConfig{}))
	assert.False(t, rl.Enabled())

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/expenses", nil), httptest.NewRecorder())
	for i := 0; i < 10; i++ {
		require.NoError(t, rl.Limit()(func(c echo.Context) error { return nil })(c))
	}
}

func TestRateLimitWithoutClientAddressIsServerError(t *testing.T) {
	rl := NewRateLimitMiddleware(newTestServer(config.AccessConfig{RateLimitRPS: 5}))
	require.True(t, rl.Enabled())

	// The limiter reports through c.Error rather than its return value.
	var handled error
	e := echo.New()
	e.IPExtractor = ClientIP
	e.HTTPErrorHandler = func(err error, c echo.Context) { handled = err }

	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	req.RemoteAddr = ""
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := rl.Limit()(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	if err != nil {
		handled = err
	}

	require.Error(t, handled)
	assert.Equal(t, errs.KindStorage, errs.KindOf(handled))
	assert.False(t, called)
}
