package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrDuplicateBooking fires off the partial unique index on
	// (user_id, event_id) over confirmed bookings.
	ErrDuplicateBooking = errors.New("user already holds a confirmed booking for this event")

	ErrBookingIDTaken = errors.New("booking ID already in use")
)
