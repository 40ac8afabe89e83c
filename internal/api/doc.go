// Package api handles incoming HTTP requests, request validation and
// response formatting. It acts as an adapter between HTTP clients and the
// internal services, mapping service errors to status codes in one place
// (see HandleAPIError).
package api
