package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pylink-dev/portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmployee() *models.Employee {
	return &models.Employee{
		ID:    "7f6b1c9e-0000-4000-8000-000000000001",
		Email: "ana@pylink.dev",
		Role:  models.RoleEmployee,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_ValidAccessToken(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", 15*time.Minute, time.Hour)

	token, err := tm.GenerateAccessToken(testEmployee())
	require.NoError(t, err)

	var gotClaims *models.TokenClaims
	handler := Middleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "ana@pylink.dev", gotClaims.Email)
	assert.Equal(t, "access", gotClaims.Type)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", 15*time.Minute, time.Hour)

	handler := Middleware(tm)(okHandler())

	r := httptest.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RejectsRefreshToken(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", 15*time.Minute, time.Hour)

	token, err := tm.GenerateRefreshToken(testEmployee())
	require.NoError(t, err)

	handler := Middleware(tm)(okHandler())

	r := httptest.NewRequest("GET", "/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RejectsTamperedToken(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", 15*time.Minute, time.Hour)
	other := NewTokenManager("another-secret-32-characters-xx", 15*time.Minute, time.Hour)

	token, err := other.GenerateAccessToken(testEmployee())
	require.NoError(t, err)

	handler := Middleware(tm)(okHandler())

	r := httptest.NewRequest("GET", "/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", 15*time.Minute, time.Hour)

	admin := testEmployee()
	admin.Role = models.RoleAdmin
	adminToken, err := tm.GenerateAccessToken(admin)
	require.NoError(t, err)

	employeeToken, err := tm.GenerateAccessToken(testEmployee())
	require.NoError(t, err)

	handler := Middleware(tm)(RequireRole(models.RoleAdmin)(okHandler()))

	r := httptest.NewRequest("GET", "/employees", nil)
	r.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest("GET", "/employees", nil)
	r.Header.Set("Authorization", "Bearer "+employeeToken)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
