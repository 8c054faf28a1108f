// Package ledger owns the seat inventory of events. Every change to an
// event's booked seat count goes through a SeatLedger so the capacity
// invariant (0 <= booked <= capacity) holds under concurrent bookings.
package ledger

import (
	"context"
	"errors"
)

var (
	// ErrCapacityExceeded is returned by Reserve when granting the
	// requested seats would push the event past its capacity.
	ErrCapacityExceeded = errors.New("ledger: not enough seats available")

	// ErrNotFound is returned when the event does not exist.
	ErrNotFound = errors.New("ledger: event not found")
)

// SeatLedger reserves and releases seats atomically. Reserve either
// grants all requested seats or none of them; partial grants never
// happen.
type SeatLedger interface {
	// Reserve increments the event's booked seat count by seats if and
	// only if the result stays within capacity.
	Reserve(ctx context.Context, eventID string, seats int) error

	// Release decrements the event's booked seat count by seats. The
	// count never goes below zero.
	Release(ctx context.Context, eventID string, seats int) error
}
