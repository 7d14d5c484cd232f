package handlers

import (
	"errors"
	"net/http"

	"github.com/pylink-dev/portal/internal/models"
	"github.com/pylink-dev/portal/internal/observability"
	pkghttp "github.com/pylink-dev/portal/pkg/http"
)

// captureError reports server-side failures. Swapped out in tests.
var captureError = observability.CaptureError

// writeServiceError maps service-layer sentinel errors onto the shared
// HTTP error envelope. 5xx responses are reported to error tracking;
// client errors are not.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "Resource already exists")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Authentication failed")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Access denied")
	case errors.Is(err, models.ErrStorageUnavailable):
		captureError(err)
		pkghttp.WriteServiceUnavailable(w, "Storage temporarily unavailable")
	default:
		captureError(err)
		pkghttp.WriteInternalError(w, "An unexpected error occurred")
	}
}
