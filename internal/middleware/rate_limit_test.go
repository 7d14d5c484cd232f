package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pylink-dev/portal/internal/auth"
	"github.com/pylink-dev/portal/internal/middleware"
	"github.com/pylink-dev/portal/internal/models"
)

func requestAs(employeeID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/sessions/start", nil)
	req.RemoteAddr = "192.0.2.10:4000"
	if employeeID != "" {
		claims := &models.TokenClaims{Type: "access", EmployeeID: employeeID}
		req = req.WithContext(context.WithValue(req.Context(), auth.EmployeeContextKey, claims))
	}
	return req
}

func TestRateLimitByEmployee_LimitsPerEmployee(t *testing.T) {
	handler := middleware.RateLimitByEmployee(middleware.RateLimitConfig{RequestsPerMinute: 3})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestAs("emp-1"))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("emp-1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")

	// Another employee from the same IP has their own budget
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("emp-2"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitByEmployee_FallsBackToIP(t *testing.T) {
	handler := middleware.RateLimitByEmployee(middleware.RateLimitConfig{RequestsPerMinute: 2})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestAs(""))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(""))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
