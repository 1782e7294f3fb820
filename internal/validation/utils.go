// Package validation contains the logic for binding and validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields) defined in struct tags and turns failures
// into 400 errors the client can understand
package validation
