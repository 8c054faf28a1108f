package notification

import (
	"context"

	"eventease/pkg/kafka"
	"eventease/pkg/logger"
)

const producerSource = "eventease-api"

// Publisher is the slice of the Kafka producer the sink needs.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaSink publishes booking lifecycle records for downstream
// consumers (analytics, mail workers). Records are keyed by booking ID
// so a booking's confirm and cancel stay ordered.
type KafkaSink struct {
	producer Publisher
	log      *logger.Logger
}

func NewKafkaSink(producer Publisher, log *logger.Logger) *KafkaSink {
	return &KafkaSink{
		producer: producer,
		log:      log,
	}
}

type bookingRecord struct {
	BookingID   string  `json:"bookingId"`
	UserID      string  `json:"userId"`
	EventID     string  `json:"eventId"`
	EventTitle  string  `json:"eventTitle"`
	Seats       int     `json:"seats"`
	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status"`
}

func (s *KafkaSink) Notify(ctx context.Context, n Notice) (Receipt, error) {
	msg := kafka.NewMessage().
		WithKey(n.Booking.BookingID).
		WithValue(bookingRecord{
			BookingID:   n.Booking.BookingID,
			UserID:      n.Booking.UserID,
			EventID:     n.Booking.EventID,
			EventTitle:  n.Event.Title,
			Seats:       n.Booking.Seats,
			TotalAmount: n.Booking.TotalAmount,
			Status:      n.Booking.Status,
		}).
		WithEventType(n.Action).
		WithSource(producerSource).
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.log.Warn("Failed to publish booking record",
			"action", n.Action,
			"booking_id", n.Booking.BookingID,
			"error", err,
		)
		return Receipt{}, err
	}

	return Receipt{
		Delivered:    true,
		ArtifactSize: len(msg.Value),
	}, nil
}
