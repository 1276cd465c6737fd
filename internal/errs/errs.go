// Package errs defines the error envelope returned to API clients.
//
// Every failure that reaches the HTTP layer is turned into an
// *HTTPError so clients always receive the same JSON shape:
// a machine code, a message, the status and optional field errors.
package errs
