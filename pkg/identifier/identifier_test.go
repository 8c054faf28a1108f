package identifier

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"
)

var (
	reEventID   = regexp.MustCompile(`^EVT-[A-Z]{3}\d{4}-[A-Z0-9]{3}$`)
	reBookingID = regexp.MustCompile(`^BK-[A-Z0-9]{8}$`)
)

func neverExists(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func TestForEventFormat(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	id, err := ForEvent(context.Background(), now, neverExists)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reEventID.MatchString(id) {
		t.Errorf("id %q does not match expected format", id)
	}
	if want := "EVT-AUG2026-"; id[:len(want)] != want {
		t.Errorf("id %q should carry the month and year prefix %q", id, want)
	}
}

func TestForEventRetriesOnCollision(t *testing.T) {
	seen := map[string]bool{}
	collisions := 0

	// First three candidates collide, fourth is free.
	exists := func(ctx context.Context, id string) (bool, error) {
		if collisions < 3 {
			collisions++
			seen[id] = true
			return true, nil
		}
		return false, nil
	}

	id, err := ForEvent(context.Background(), time.Now(), exists)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen[id] {
		t.Errorf("returned id %q was reported as taken", id)
	}
	if collisions != 3 {
		t.Errorf("expected 3 collision checks, got %d", collisions)
	}
}

func TestForEventRetryCapExhausted(t *testing.T) {
	attempts := 0
	alwaysTaken := func(ctx context.Context, id string) (bool, error) {
		attempts++
		return true, nil
	}

	_, err := ForEvent(context.Background(), time.Now(), alwaysTaken)
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if attempts != MaxEventAttempts {
		t.Errorf("expected %d attempts, got %d", MaxEventAttempts, attempts)
	}
}

func TestForEventPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("store unavailable")
	failing := func(ctx context.Context, id string) (bool, error) {
		return false, storeErr
	}

	_, err := ForEvent(context.Background(), time.Now(), failing)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestForBookingFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := ForBooking()
		if !reBookingID.MatchString(id) {
			t.Fatalf("id %q does not match expected format", id)
		}
	}
}

// Generating a large batch of event ids against an accumulating store must
// either stay collision-free or surface the retry exhaustion error, never
// return a duplicate.
func TestForEventBulkUniqueness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping bulk uniqueness test in short mode")
	}

	taken := make(map[string]struct{}, 40000)
	exists := func(ctx context.Context, id string) (bool, error) {
		_, ok := taken[id]
		return ok, nil
	}

	now := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	const total = 100_000

	for i := 0; i < total; i++ {
		id, err := ForEvent(context.Background(), now, exists)
		if err != nil {
			if errors.Is(err, ErrRetriesExhausted) {
				// The 36^3 monthly space holds 46656 ids; filling most of it
				// legitimately exhausts the retry cap.
				if len(taken) < 30000 {
					t.Fatalf("retry cap hit too early: only %d ids generated", len(taken))
				}
				return
			}
			t.Fatalf("unexpected error after %d ids: %v", i, err)
		}
		if _, dup := taken[id]; dup {
			t.Fatalf("duplicate id %q returned", id)
		}
		taken[id] = struct{}{}
	}
}
