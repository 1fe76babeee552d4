// Package apperrors defines the error taxonomy shared by the lifecycle,
// query and storage layers. Every error here is locally recoverable: handlers
// translate them into user-facing responses, nothing aborts the process.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition marks a status change that is not an edge in the
	// lifecycle transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden marks a role, permission or active-state violation.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyUpvoted marks a duplicate upvote from the same user.
	ErrAlreadyUpvoted = errors.New("already upvoted")

	// ErrNotFound marks a missing entity or unrecognized enum value.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks malformed request input, rejected before any store
	// access.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a compare-and-set miss on save; the caller re-reads
	// and retries.
	ErrConflict = errors.New("concurrent modification")
)

// Wrap annotates a sentinel with context while keeping errors.Is working.
func Wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}
