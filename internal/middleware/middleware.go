// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as access control (API key, IP allowlist), request logging,
// CORS, rate limiting, and panic recovery
package middleware
