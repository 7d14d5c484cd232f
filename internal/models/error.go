package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Login protection
	ErrRateLimitExceeded = errors.New("too many failed login attempts")
	ErrAccountDisabled   = errors.New("account is disabled")
	ErrMFARequired       = errors.New("verification code required")

	// Work session state errors
	ErrAlreadyWorking  = errors.New("a work session is already active")
	ErrNoActiveSession = errors.New("no active work session")

	// Persistence collaborator failures
	ErrStorageUnavailable = errors.New("storage unavailable")
)
