package shared

import "errors"

var (
	// ErrNotFound indicates the resource does not exist for this tenant.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates the payload failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidID indicates a non-positive or unparsable identifier.
	ErrInvalidID = errors.New("invalid ID")
)
