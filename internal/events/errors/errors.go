package errors

import "errors"

var (
	ErrNotFound = errors.New("event not found")

	ErrInvalidID = errors.New("invalid event ID format")

	ErrEventIDTaken = errors.New("event ID already in use")

	// ErrUpdateConflict means the event exists but a guarded update did
	// not match, typically a capacity shrink racing a seat reservation.
	ErrUpdateConflict = errors.New("event update precondition failed")
)
