// Package errs define custom error types and utilities.
//
// Its purpose is to give every failure a Kind (config, unauthorized,
// forbidden, bad request, not found, rate limited, storage) and a
// consistent JSON shape, so the client always receives the same
// structure and tests can tell causes apart even when the wire
// message is generic.
package errs

import (
	"errors"
	"net/http"
)

// Kind classifies an error by cause.
//
// The string value is what clients see in the "error" field of the
// response body, e.g. {"error": "unauthorized"}.
type Kind string

const (
	// KindConfig is a missing or invalid startup setting. Fatal, never sent to clients.
	KindConfig Kind = "config_error"

	// KindUnauthorized is a missing or wrong API key.
	KindUnauthorized Kind = "unauthorized"

	// KindForbidden is a caller outside the IP allowlist.
	KindForbidden Kind = "forbidden"

	// KindBadRequest is a malformed or invalid request payload.
	KindBadRequest Kind = "bad_request"

	// KindNotFound is an unknown route.
	KindNotFound Kind = "not_found"

	// KindRateLimited is a caller over the configured request rate.
	KindRateLimited Kind = "rate_limited"

	// KindStorage is any failure while talking to the database.
	KindStorage Kind = "server_error"
)

// ConfigError wraps a configuration failure detected at startup.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError wraps err as a configuration error.
func NewConfigError(err error) *ConfigError {
	return &ConfigError{Err: err}
}

// KindOf reports the Kind of err.
//
// Behavior:
//   - *HTTPError anywhere in the chain: its Kind
//   - *ConfigError anywhere in the chain: KindConfig
//   - anything else: KindStorage, the catch-all for unexpected failures
func KindOf(err error) Kind {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Kind != "" {
		return httpErr.Kind
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return KindConfig
	}

	return KindStorage
}

// KindForStatus picks the Kind for a bare HTTP status, e.g. one raised by the router.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 400 && status < 500:
		return KindBadRequest
	default:
		return KindStorage
	}
}
