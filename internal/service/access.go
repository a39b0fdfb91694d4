package service

import (
	"crypto/subtle"

	"github.com/deppfellow/travel-sync/internal/errs"
	"github.com/deppfellow/travel-sync/internal/server"
)

// AccessService decides whether a caller may use the /api routes.
//
// Both gates are optional: an empty key disables the key check and an
// empty allowlist disables the address check.
type AccessService struct {
	apiKey     []byte
	allowedIPs map[string]struct{}
}

func NewAccessService(s *server.Server) *AccessService {
	a := &AccessService{
		apiKey:     []byte(s.Config.Access.APIKey),
		allowedIPs: make(map[string]struct{}),
	}
	for _, ip := range s.Config.Access.AllowedIPList() {
		a.allowedIPs[ip] = struct{}{}
	}
	return a
}

// KeyRequired reports whether requests must carry the API key.
func (a *AccessService) KeyRequired() bool {
	return len(a.apiKey) > 0
}

// AllowlistEnabled reports whether the caller address is checked.
func (a *AccessService) AllowlistEnabled() bool {
	return len(a.allowedIPs) > 0
}

// CheckAPIKey compares the provided key against the configured one in constant time.
func (a *AccessService) CheckAPIKey(provided string) error {
	if !a.KeyRequired() {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(provided), a.apiKey) != 1 {
		return errs.NewUnauthorizedError("Unauthorized", false)
	}
	return nil
}

// CheckIP reports whether ip is on the allowlist.
func (a *AccessService) CheckIP(ip string) error {
	if !a.AllowlistEnabled() {
		return nil
	}
	if _, ok := a.allowedIPs[ip]; !ok {
		return errs.NewForbiddenError("Forbidden", false)
	}
	return nil
}

// Authorize runs the key check, then the address check. The first failure wins.
func (a *AccessService) Authorize(providedKey, ip string) error {
	if err := a.CheckAPIKey(providedKey); err != nil {
		return err
	}
	return a.CheckIP(ip)
}
