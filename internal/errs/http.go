package errs

import (
	"net/http"
)

func newHTTPError(status int, message string, cause error) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
		cause:   cause,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
func NewBadRequestError(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message, nil)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, nil)
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError(message string) *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, message, nil)
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the cause's own message: callers of this API rely on
// seeing the raw store error. A nil cause falls back to the status text.
func NewInternalServerError(cause error) *HTTPError {
	message := http.StatusText(http.StatusInternalServerError)
	if cause != nil {
		message = cause.Error()
	}
	return newHTTPError(http.StatusInternalServerError, message, cause)
}

// ValidationError converts a generic validation error into a 400 Bad Request HTTPError.
func ValidationError(err error) *HTTPError {
	return newHTTPError(http.StatusBadRequest, "Validation failed: "+err.Error(), err)
}
