// Package lib groups supporting packages that sit outside the
// handler/service/repository layers: background jobs (Asynq), email
// (Resend), access tokens, media uploads, article content processing,
// Prometheus metrics and small helpers.
package lib
