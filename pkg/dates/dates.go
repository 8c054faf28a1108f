package dates

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an event relative to the current
// calendar date. It is always derived, never trusted from storage.
type Status string

const (
	StatusUpcoming  Status = "Upcoming"
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
)

// DeriveStatus compares calendar dates only; time-of-day is ignored.
func DeriveStatus(eventDate, now time.Time) Status {
	event := truncateToDay(eventDate)
	today := truncateToDay(now)

	switch {
	case event.Before(today):
		return StatusCompleted
	case event.Equal(today):
		return StatusOngoing
	default:
		return StatusUpcoming
	}
}

// IsEventStarted reports whether the event's start moment has passed.
// startTime is an HH:MM local time-of-day string; when empty, the
// comparison falls back to the start of the event's calendar day.
func IsEventStarted(eventDate time.Time, startTime string, now time.Time) bool {
	start := truncateToDay(eventDate)

	if startTime != "" {
		if t, err := time.Parse("15:04", startTime); err == nil {
			start = start.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
		}
	}

	return now.After(start)
}

// FormatDate renders a date for display, e.g. "7-Mar-2026".
func FormatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d-%s-%d", date.Day(), date.Month().String()[:3], date.Year())
}

// StartOfDay returns midnight of the given date in its location.
func StartOfDay(t time.Time) time.Time {
	return truncateToDay(t)
}

// EndOfDay returns the last instant of the given date in its location.
func EndOfDay(t time.Time) time.Time {
	return truncateToDay(t).Add(24*time.Hour - time.Nanosecond)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
