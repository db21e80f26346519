// Package errs defines the error types returned to API clients.
//
// Every failure that reaches the HTTP layer is converted into an
// HTTPError so clients always receive the same JSON shape: a stable
// machine-readable code, a message, optional field errors for forms
// and an optional action hint (redirect, retry).
package errs
