// Package apperr defines error kinds that are reused across repositories,
// services and handlers. Lower layers wrap these sentinels with context
// (fmt.Errorf("...: %w", ErrNotFound)) and the HTTP layer inspects them
// with errors.Is to pick a status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when a referenced dome, seat row, show, session
// or reservation does not exist (or is not visible to the caller).
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with existing state: a seat
// already sold for a session, a duplicate email, or a delete blocked by
// dependent rows.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when the caller is authenticated but lacks the
// role required by the operation.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when an operation requires an authenticated
// caller and none is present, or the credentials are invalid.
var ErrUnauthorized = errors.New("authentication required")

// ErrMethodNotAllowed marks operations that are intentionally unsupported,
// such as deleting a show session or editing a reservation.
var ErrMethodNotAllowed = errors.New("method not allowed")

// ValidationError reports malformed or out-of-range input. Field names the
// offending request field and is empty for errors that apply to the whole
// payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for field with a formatted message.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsValidation unwraps err into a *ValidationError when it carries one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// HTTPStatus maps an error kind to the status code the API answers with.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	if _, ok := AsValidation(err); ok {
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
