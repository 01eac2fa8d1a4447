package types

import "errors"

// Sentinel errors shared across repositories and services. Handlers map
// these to HTTP status codes at the boundary.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrValidation      = errors.New("validation failed")
)
