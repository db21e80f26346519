// Package middleware holds the global and route-level echo middleware:
// request ids, request-scoped logging, New Relic tracing, Prometheus
// metrics, JWT authentication, Redis rate limits and the error handler.
package middleware
