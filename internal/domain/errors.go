package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so the transport layer can map to HTTP status codes
// without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)
