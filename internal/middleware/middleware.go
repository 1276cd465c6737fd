// Package middleware holds the global and route-level echo middleware:
// request ids, request logging, JWT authentication, New Relic tracing,
// rate limiting and the error handler that shapes every error response.
package middleware
