package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/travel-sync/internal/server"
	"github.com/deppfellow/travel-sync/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	// APIKeyHeader carries the shared secret. Header names are case-insensitive.
	APIKeyHeader = "X-API-Key"

	// APIPrefix is the path prefix guarded by the access checks.
	APIPrefix = "/api/"
)

// AccessMiddleware enforces the optional API key and IP allowlist on /api/ paths.
type AccessMiddleware struct {
	server *server.Server
	access *service.AccessService
}

func NewAccessMiddleware(s *server.Server, access *service.AccessService) *AccessMiddleware {
	return &AccessMiddleware{
		server: s,
		access: access,
	}
}

// RequireAccess rejects /api/ requests with a wrong key (401) or from an
// address outside the allowlist (403). Other paths pass untouched.
func (a *AccessMiddleware) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !strings.HasPrefix(c.Request().URL.Path, APIPrefix) {
			return next(c)
		}

		start := time.Now()
		ip := c.RealIP()

		if err := a.access.Authorize(c.Request().Header.Get(APIKeyHeader), ip); err != nil {
			a.server.Logger.Warn().
				Str("function", "RequireAccess").
				Str("request_id", GetRequestID(c)).
				Str("ip", ip).
				Str("path", c.Request().URL.Path).
				Dur("duration", time.Since(start)).
				Err(err).
				Msg("request rejected by access control")
			return err
		}

		return next(c)
	}
}

// ClientIP returns the caller address: the first X-Forwarded-For entry when
// the header is present, else the host part of the peer address.
//
// It is installed as the router's IPExtractor so c.RealIP() agrees with it.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get(echo.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
