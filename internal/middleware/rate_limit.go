package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/pylink-dev/portal/internal/auth"
)

// RateLimitConfig holds request throttling configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultPublicRateLimit throttles unauthenticated endpoints (login,
// refresh, contact form) to 10 requests per minute per IP.
func DefaultPublicRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 10,
	}
}

// DefaultSessionRateLimit throttles the work-session endpoints to 30
// requests per minute per employee, enough for any human clock-in
// pattern while capping scripted hammering.
func DefaultSessionRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 30,
	}
}

func limitHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"error":"rate_limit_exceeded","message":"Too many requests"}`))
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(limitHandler),
	)
}

// RateLimitByEmployee creates a middleware that rate limits requests by
// the authenticated employee, falling back to client IP when the request
// carries no claims.
func RateLimitByEmployee(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		1*time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
				return "employee:" + claims.EmployeeID, nil
			}
			return httprate.KeyByRealIP(r)
		}),
		httprate.WithLimitHandler(limitHandler),
	)
}
