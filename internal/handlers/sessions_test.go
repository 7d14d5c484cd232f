package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pylink-dev/portal/internal/auth"
	"github.com/pylink-dev/portal/internal/models"
	pkghttp "github.com/pylink-dev/portal/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockSessionService implements SessionServiceInterface for testing
type MockSessionService struct {
	startErr   error
	endErr     error
	endEntry   *models.TimeEntry
	setResult  bool
	activeSess *models.WorkSession
}

func (m *MockSessionService) Start(ctx context.Context, employeeID string, projectID *string) (*models.WorkSession, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	return &models.WorkSession{
		EmployeeID: employeeID,
		ProjectID:  projectID,
		StartTime:  time.Now().UTC(),
	}, nil
}

func (m *MockSessionService) End(ctx context.Context, employeeID string) (*models.TimeEntry, error) {
	if m.endErr != nil {
		return nil, m.endErr
	}
	return m.endEntry, nil
}

func (m *MockSessionService) SetDescription(employeeID, description string) bool {
	return m.setResult
}

func (m *MockSessionService) Active(employeeID string) (*models.WorkSession, bool) {
	if m.activeSess == nil {
		return nil, false
	}
	return m.activeSess, true
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	claims := &models.TokenClaims{Type: "access", EmployeeID: "emp-1"}
	return req.WithContext(context.WithValue(req.Context(), auth.EmployeeContextKey, claims))
}

func TestSessionHandler_Start(t *testing.T) {
	h := NewSessionHandler(&MockSessionService{})

	body, _ := json.Marshal(StartSessionRequest{})
	w := httptest.NewRecorder()
	h.Start(w, authedRequest("POST", "/sessions/start", body))

	assert.Equal(t, http.StatusCreated, w.Code)

	var session models.WorkSession
	require.NoError(t, json.NewDecoder(w.Body).Decode(&session))
	assert.Equal(t, "emp-1", session.EmployeeID)
}

func TestSessionHandler_StartWithoutBody(t *testing.T) {
	h := NewSessionHandler(&MockSessionService{})

	req := authedRequest("POST", "/sessions/start", nil)
	w := httptest.NewRecorder()
	h.Start(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSessionHandler_StartConflict(t *testing.T) {
	h := NewSessionHandler(&MockSessionService{startErr: models.ErrAlreadyWorking})

	w := httptest.NewRecorder()
	h.Start(w, authedRequest("POST", "/sessions/start", nil))

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp pkghttp.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "already_working", resp.Error)
}

func TestSessionHandler_StartRequiresAuth(t *testing.T) {
	h := NewSessionHandler(&MockSessionService{})

	req := httptest.NewRequest("POST", "/sessions/start", nil)
	w := httptest.NewRecorder()
	h.Start(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionHandler_End(t *testing.T) {
	entry := &models.TimeEntry{
		ID:            "entry-1",
		EmployeeID:    "emp-1",
		DurationHours: 7.5,
	}
	h := NewSessionHandler(&MockSessionService{endEntry: entry})

	w := httptest.NewRecorder()
	h.End(w, authedRequest("POST", "/sessions/end", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var got models.TimeEntry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "entry-1", got.ID)
	assert.Equal(t, 7.5, got.DurationHours)
}

func TestSessionHandler_EndWhileIdle(t *testing.T) {
	h := NewSessionHandler(&MockSessionService{endErr: models.ErrNoActiveSession})

	w := httptest.NewRecorder()
	h.End(w, authedRequest("POST", "/sessions/end", nil))

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp pkghttp.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "no_active_session", resp.Error)
}

func TestSessionHandler_EndStorageUnavailable(t *testing.T) {
	h := NewSessionHandler(&MockSessionService{endErr: models.ErrStorageUnavailable})

	w := httptest.NewRecorder()
	h.End(w, authedRequest("POST", "/sessions/end", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSessionHandler_SetDescription(t *testing.T) {
	h := NewSessionHandler(&MockSessionService{setResult: true})

	body, _ := json.Marshal(SetDescriptionRequest{Description: "sprint planning"})
	w := httptest.NewRecorder()
	h.SetDescription(w, authedRequest("PUT", "/sessions/description", body))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp["updated"])
}

func TestSessionHandler_SetDescriptionWhileIdle(t *testing.T) {
	h := NewSessionHandler(&MockSessionService{setResult: false})

	body, _ := json.Marshal(SetDescriptionRequest{Description: "sprint planning"})
	w := httptest.NewRecorder()
	h.SetDescription(w, authedRequest("PUT", "/sessions/description", body))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp["updated"])
}

func TestSessionHandler_Active(t *testing.T) {
	session := &models.WorkSession{EmployeeID: "emp-1", StartTime: time.Now().UTC()}
	h := NewSessionHandler(&MockSessionService{activeSess: session})

	w := httptest.NewRecorder()
	h.Active(w, authedRequest("GET", "/sessions/active", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, true, resp["active"])
}

func TestSessionHandler_ActiveWhileIdle(t *testing.T) {
	h := NewSessionHandler(&MockSessionService{})

	w := httptest.NewRecorder()
	h.Active(w, authedRequest("GET", "/sessions/active", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, false, resp["active"])
}
