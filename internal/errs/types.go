package errs

import (
	"net/http"
)

// newHTTPError builds an HTTPError whose Code is derived from the status text.
//
// http.StatusText(401) => "Unauthorized" => "UNAUTHORIZED"
func newHTTPError(kind Kind, status int, message string, override bool) *HTTPError {
	return &HTTPError{
		Kind:     kind,
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message:  message,
		Status:   status,
		Override: override,
	}
}

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
//
// Parameters:
//   - message: text to send to client
//   - override: whether the client may display message as-is
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return newHTTPError(KindUnauthorized, http.StatusUnauthorized, message, override)
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string, override bool) *HTTPError {
	return newHTTPError(KindForbidden, http.StatusForbidden, message, override)
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	e := newHTTPError(KindBadRequest, http.StatusBadRequest, message, override)

	if code != nil {
		e.Code = *code
	}
	e.Errors = errors

	return e
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	e := newHTTPError(KindNotFound, http.StatusNotFound, message, override)

	if code != nil {
		e.Code = *code
	}

	return e
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError(message string) *HTTPError {
	return newHTTPError(KindRateLimited, http.StatusTooManyRequests, message, false)
}

// NewInternalServerError creates the opaque 500 storage error.
//
// The message is the generic status text, never the underlying cause.
// The real error is logged by the global error handler, not sent.
func NewInternalServerError() *HTTPError {
	return newHTTPError(KindStorage, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false)
}

// ValidationError converts a generic validation error into a 400 Bad Request HTTPError.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil)
}
