// Package errs define custom error types and utilities.
//
// Its purpose is to give every failure that reaches the HTTP boundary a
// status and a message, so clients always receive the same error shape:
//
//	{ "error": "<message>" }
//
// - Client errors (400), not-found (404), throttling (429) and server errors (500).
// - Errors play nicely with Go's standard errors package (Is / As / Unwrap).
package errs

import "strings"

// HTTPError is the main custom error type for API responses.
//
// Only Message is serialized; Code and Status drive logging and the response
// status line. Cause keeps the underlying error (if any) for logs and Unwrap.
type HTTPError struct {
	Code    string `json:"-"`
	Message string `json:"error"`
	Status  int    `json:"-"`

	cause error
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *HTTPError with the same status.
// A target with a zero Status matches any *HTTPError.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return t.Status == 0 || t.Status == e.Status
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
