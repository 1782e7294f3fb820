// Package middleware contains the echo middleware chain.
//
// It handles cross-cutting concerns for every request: correlation ids,
// the request-scoped logger, access logging, error rendering, panic
// recovery, CORS, tracing, metrics and optional rate limiting.
package middleware
