package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pylink-dev/portal/internal/models"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"conflict", models.ErrConflict, http.StatusConflict},
		{"bad request", fmt.Errorf("%w: missing field", models.ErrBadRequest), http.StatusBadRequest},
		{"unauthorized", models.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", models.ErrForbidden, http.StatusForbidden},
		{"storage unavailable", models.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tc.err)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestWriteServiceError_ReportsServerErrors(t *testing.T) {
	var captured []error
	orig := captureError
	captureError = func(err error) { captured = append(captured, err) }
	defer func() { captureError = orig }()

	// Client errors are never reported
	writeServiceError(httptest.NewRecorder(), models.ErrNotFound)
	writeServiceError(httptest.NewRecorder(), models.ErrUnauthorized)
	assert.Empty(t, captured)

	// 5xx responses are
	writeServiceError(httptest.NewRecorder(), models.ErrStorageUnavailable)
	writeServiceError(httptest.NewRecorder(), errors.New("boom"))
	assert.Len(t, captured, 2)
	assert.EqualError(t, captured[1], "boom")
}
