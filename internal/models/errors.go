package models

import "errors"

// Sentinel errors shared across repositories and services. Handlers map these
// to HTTP status codes; wrap with fmt.Errorf("%w: ...") to add detail.
var (
	// ErrValidation marks malformed or missing input. Not retryable.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to a user, ad, or certificate that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate-create race that lost a uniqueness check.
	// Callers should retry the read path.
	ErrConflict = errors.New("duplicate record")

	// ErrInvariantViolation marks a cached balance that disagrees with the
	// transaction ledger. Should be unreachable; fatal-logged when observed.
	ErrInvariantViolation = errors.New("ledger invariant violated")
)
