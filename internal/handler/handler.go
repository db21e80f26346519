// Package handler is the HTTP layer. Handlers bind and validate request
// payloads, call the service layer and wrap results in the JSON envelope.
package handler
