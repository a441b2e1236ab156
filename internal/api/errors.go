package api

import "errors"

var (
	// ErrValidation indicates the persistence service rejected the request
	// body (HTTP 400).
	ErrValidation = errors.New("persistence service rejected request")

	// ErrUnauthorized indicates the caller is not permitted to perform the
	// operation (HTTP 401/403). UI gating is advisory only; this is the
	// authorization boundary answering.
	ErrUnauthorized = errors.New("not authorized")

	// ErrNotFound indicates the addressed entity does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrRemote indicates the persistence service failed or is unreachable
	// (network error or 5xx).
	ErrRemote = errors.New("persistence service unavailable")
)
