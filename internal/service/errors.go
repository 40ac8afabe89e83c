package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is(); the API layer maps them to status codes.
var (
	// ErrServiceUnavailable indicates a dependency needed to serve requests is down.
	// API layer should map this to HTTP 503 Service Unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")
)
