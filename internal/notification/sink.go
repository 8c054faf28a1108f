// Package notification delivers booking receipts to users and to
// downstream consumers. Delivery is best-effort: the booking flow never
// fails because of a sink error, it only reports a warning.
package notification

import (
	"context"

	"eventease/pkg/model"
)

const (
	ActionConfirmed = "booking.confirmed"
	ActionCancelled = "booking.cancelled"
)

// Notice carries everything a sink needs to render a notification.
type Notice struct {
	Action  string
	Booking *model.Booking
	Event   *model.Event
}

// Receipt reports what a sink produced.
type Receipt struct {
	Delivered    bool
	ArtifactSize int
}

type Sink interface {
	Notify(ctx context.Context, n Notice) (Receipt, error)
}
