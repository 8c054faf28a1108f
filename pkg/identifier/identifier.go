package identifier

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	eventSuffixLen   = 3
	bookingSuffixLen = 8

	// MaxEventAttempts bounds the collision retry loop. The suffix space is
	// 36^3 per month, so hitting the cap means the store is nearly full for
	// the month and the caller must surface a generation failure.
	MaxEventAttempts = 20
)

var ErrRetriesExhausted = errors.New("identifier generation retries exhausted")

var months = [...]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// ExistsFunc reports whether a candidate identifier is already taken.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// ForEvent generates a human-readable event identifier of the form
// EVT-<MON><YYYY>-<3 alphanumeric>, pre-checking uniqueness against the
// store and retrying with a fresh suffix on collision.
func ForEvent(ctx context.Context, now time.Time, exists ExistsFunc) (string, error) {
	prefix := fmt.Sprintf("EVT-%s%d-", months[now.Month()-1], now.Year())

	for attempt := 0; attempt < MaxEventAttempts; attempt++ {
		candidate := prefix + randomSuffix(eventSuffixLen)

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check event id uniqueness: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrRetriesExhausted
}

// ForBooking generates a booking identifier of the form
// BK-<8 alphanumeric>. Uniqueness is not pre-checked; the store's unique
// index on booking_id rejects the rare collision and the caller retries
// the insert with a fresh identifier.
func ForBooking() string {
	return "BK-" + randomSuffix(bookingSuffixLen)
}

func randomSuffix(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	max := big.NewInt(int64(len(alphabet)))

	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform entropy source is
			// broken; there is no sane recovery at this level.
			panic(fmt.Sprintf("identifier: entropy source unavailable: %v", err))
		}
		sb.WriteByte(alphabet[idx.Int64()])
	}

	return sb.String()
}
