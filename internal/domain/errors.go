package domain

import "errors"

// Sentinel errors shared by the repository and service layers.
// The HTTP layer maps these onto response codes; everything else is treated
// as an internal error.
var (
	// ErrNotAuthenticated no resolvable actor (missing/expired session token)
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotAuthorized actor resolved but lacks rights over the target resource
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNotFound referenced id does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidState operation is valid but the target is in a state that
	// forbids it (e.g. deleting a template that is still bound)
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict optimistic-concurrency or uniqueness conflict; callers may
	// re-read and retry
	ErrConflict = errors.New("conflict")

	// ErrValidation malformed or missing input; caller error, never retried
	ErrValidation = errors.New("validation failed")
)
