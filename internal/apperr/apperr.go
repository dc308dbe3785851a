// Package apperr defines the error taxonomy surfaced across the core:
// rejected writes, missing references, failed migration post-checks and
// persistence failures. Handlers map these onto HTTP statuses; nothing in
// the core retries them.
package apperr

import "fmt"

// ValidationError marks a malformed or missing required field. The write
// is rejected with no partial effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field '%s' %s", e.Field, e.Reason)
}

// NotFoundError marks a referenced id that does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// FatalInconsistencyError marks a failed migration post-check. The atomic
// unit has been rolled back in full; this is never auto-retried.
type FatalInconsistencyError struct {
	Unassigned int64
}

func (e *FatalInconsistencyError) Error() string {
	return fmt.Sprintf("migration post-check failed: %d transactions left without an assigned origin, all changes rolled back", e.Unassigned)
}

// StoreUnavailableError wraps a persistence failure. Only the diagnostic
// string leaks outward, never raw driver state.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// Store is a shorthand constructor used by the service layer.
func Store(op string, err error) *StoreUnavailableError {
	return &StoreUnavailableError{Op: op, Err: err}
}
