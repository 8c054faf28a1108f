package notification

import (
	"context"
	"fmt"
	"strings"

	"eventease/pkg/dates"
	"eventease/pkg/logger"
)

// EmailSink renders a plain-text ticket and hands it to the mail
// transport. There is no real SMTP integration yet; the rendered
// artifact is logged so the flow is observable end to end.
type EmailSink struct {
	log *logger.Logger
}

func NewEmailSink(log *logger.Logger) *EmailSink {
	return &EmailSink{log: log}
}

func (s *EmailSink) Notify(ctx context.Context, n Notice) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	artifact := renderTicket(n)

	s.log.Info("Notification email prepared",
		"action", n.Action,
		"booking_id", n.Booking.BookingID,
		"user_id", n.Booking.UserID,
		"artifact_bytes", len(artifact),
	)

	return Receipt{
		Delivered:    true,
		ArtifactSize: len(artifact),
	}, nil
}

func renderTicket(n Notice) string {
	var b strings.Builder

	switch n.Action {
	case ActionCancelled:
		b.WriteString("Your booking has been cancelled\n")
	default:
		b.WriteString("Your booking is confirmed\n")
	}
	b.WriteString(strings.Repeat("=", 40) + "\n")

	fmt.Fprintf(&b, "Booking ID: %s\n", n.Booking.BookingID)
	fmt.Fprintf(&b, "Event:      %s\n", n.Event.Title)
	fmt.Fprintf(&b, "Date:       %s\n", dates.FormatDate(n.Event.Date))
	if n.Event.StartTime != "" {
		fmt.Fprintf(&b, "Starts at:  %s\n", n.Event.StartTime)
	}
	fmt.Fprintf(&b, "Location:   %s (%s)\n", n.Event.Location, n.Event.LocationType)
	fmt.Fprintf(&b, "Seats:      %d\n", n.Booking.Seats)
	fmt.Fprintf(&b, "Total:      %.2f\n", n.Booking.TotalAmount)

	if n.Action == ActionCancelled && n.Booking.CancellationDate != nil {
		fmt.Fprintf(&b, "Cancelled:  %s\n", dates.FormatDate(*n.Booking.CancellationDate))
	}

	return b.String()
}
