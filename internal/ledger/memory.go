package ledger

import (
	"context"
	"sync"
)

type seatCount struct {
	capacity int
	booked   int
}

// MemorySeatLedger keeps seat counts in process memory behind a single
// mutex. It exists for tests and for single-node setups without a
// database; the Mongo ledger is the production implementation.
type MemorySeatLedger struct {
	mu     sync.Mutex
	events map[string]*seatCount
}

func NewMemorySeatLedger() *MemorySeatLedger {
	return &MemorySeatLedger{
		events: make(map[string]*seatCount),
	}
}

// Track registers an event with the ledger. Calling Track again for the
// same event resets its counts.
func (l *MemorySeatLedger) Track(eventID string, capacity, booked int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events[eventID] = &seatCount{capacity: capacity, booked: booked}
}

// Booked returns the current booked seat count for an event.
func (l *MemorySeatLedger) Booked(eventID string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sc, ok := l.events[eventID]
	if !ok {
		return 0, false
	}
	return sc.booked, true
}

func (l *MemorySeatLedger) Reserve(ctx context.Context, eventID string, seats int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sc, ok := l.events[eventID]
	if !ok {
		return ErrNotFound
	}
	if sc.booked+seats > sc.capacity {
		return ErrCapacityExceeded
	}
	sc.booked += seats
	return nil
}

func (l *MemorySeatLedger) Release(ctx context.Context, eventID string, seats int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sc, ok := l.events[eventID]
	if !ok {
		return ErrNotFound
	}
	sc.booked -= seats
	if sc.booked < 0 {
		sc.booked = 0
	}
	return nil
}
