package model

import "time"

const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"

	// MinSeatsPerBooking and MaxSeatsPerBooking bound a single booking.
	MinSeatsPerBooking = 1
	MaxSeatsPerBooking = 2
)

type Booking struct {
	ID               string     `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID        string     `json:"bookingId" bson:"booking_id"`
	UserID           string     `json:"userId" bson:"user_id"`
	EventID          string     `json:"eventId" bson:"event_id"`
	Seats            int        `json:"seats" bson:"seats"`
	TotalAmount      float64    `json:"totalAmount" bson:"total_amount"`
	Status           string     `json:"status" bson:"status"`
	BookingDate      time.Time  `json:"bookingDate" bson:"booking_date"`
	CancellationDate *time.Time `json:"cancellationDate,omitempty" bson:"cancellation_date,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" bson:"created_at"`
}

type CreateBookingRequest struct {
	EventID string `json:"eventId" validate:"required"`
	Seats   int    `json:"seats" validate:"required,min=1,max=2"`
}

// BookingConfirmation is what a successful reservation returns: the
// persisted booking, its event snapshot, and any non-fatal notification
// warning.
type BookingConfirmation struct {
	Booking *Booking `json:"booking"`
	Event   *Event   `json:"event"`
	Warning string   `json:"-"`
}
