package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"eventease/pkg/kafka"
	"eventease/pkg/logger"
	"eventease/pkg/model"
)

func sampleNotice(action string) Notice {
	return Notice{
		Action: action,
		Booking: &model.Booking{
			BookingID:   "BK-A1B2C3D4",
			UserID:      "user-1",
			EventID:     "EVT-MAR2026-X9Z",
			Seats:       2,
			TotalAmount: 50,
			Status:      model.BookingConfirmed,
		},
		Event: &model.Event{
			EventID:      "EVT-MAR2026-X9Z",
			Title:        "Go Meetup",
			Date:         time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC),
			StartTime:    "18:30",
			Location:     "Community Hall",
			LocationType: model.LocationInPerson,
		},
	}
}

func TestEmailSinkRendersTicket(t *testing.T) {
	sink := NewEmailSink(logger.Discard())

	receipt, err := sink.Notify(context.Background(), sampleNotice(ActionConfirmed))
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if !receipt.Delivered {
		t.Error("receipt.Delivered = false, want true")
	}
	if receipt.ArtifactSize == 0 {
		t.Error("receipt.ArtifactSize = 0, want rendered artifact")
	}
}

func TestRenderTicketContents(t *testing.T) {
	artifact := renderTicket(sampleNotice(ActionConfirmed))

	for _, want := range []string{"BK-A1B2C3D4", "Go Meetup", "20-Mar-2026", "Seats:      2", "50.00"} {
		if !strings.Contains(artifact, want) {
			t.Errorf("artifact missing %q:\n%s", want, artifact)
		}
	}
	if strings.Contains(artifact, "cancelled") {
		t.Error("confirmed ticket mentions cancellation")
	}
}

func TestRenderTicketCancelled(t *testing.T) {
	n := sampleNotice(ActionCancelled)
	cancelled := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	n.Booking.Status = model.BookingCancelled
	n.Booking.CancellationDate = &cancelled

	artifact := renderTicket(n)
	if !strings.Contains(artifact, "cancelled") {
		t.Errorf("artifact missing cancellation notice:\n%s", artifact)
	}
	if !strings.Contains(artifact, "10-Mar-2026") {
		t.Errorf("artifact missing cancellation date:\n%s", artifact)
	}
}

type mockPublisher struct {
	published []kafka.Message
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, msg)
	return nil
}

func TestKafkaSinkPublishes(t *testing.T) {
	pub := &mockPublisher{}
	sink := NewKafkaSink(pub, logger.Discard())

	receipt, err := sink.Notify(context.Background(), sampleNotice(ActionConfirmed))
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if !receipt.Delivered {
		t.Error("receipt.Delivered = false, want true")
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.published))
	}

	msg := pub.published[0]
	if msg.Key != "BK-A1B2C3D4" {
		t.Errorf("message key = %q, want booking ID", msg.Key)
	}
	if msg.Headers[kafka.HeaderEventType] != ActionConfirmed {
		t.Errorf("event-type header = %q, want %q", msg.Headers[kafka.HeaderEventType], ActionConfirmed)
	}
	if !strings.Contains(string(msg.Value), `"bookingId":"BK-A1B2C3D4"`) {
		t.Errorf("message value missing booking ID: %s", msg.Value)
	}
}

func TestKafkaSinkPropagatesError(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker unreachable")}
	sink := NewKafkaSink(pub, logger.Discard())

	receipt, err := sink.Notify(context.Background(), sampleNotice(ActionConfirmed))
	if err == nil {
		t.Fatal("Notify() error = nil, want publish failure")
	}
	if receipt.Delivered {
		t.Error("receipt.Delivered = true, want false")
	}
}

type stubSink struct {
	receipt Receipt
	err     error
	calls   int
}

func (s *stubSink) Notify(ctx context.Context, n Notice) (Receipt, error) {
	s.calls++
	return s.receipt, s.err
}

func TestFanoutContinuesPastFailures(t *testing.T) {
	failing := &stubSink{err: errors.New("smtp down")}
	working := &stubSink{receipt: Receipt{Delivered: true, ArtifactSize: 128}}

	fanout := NewFanout(failing, working)

	receipt, err := fanout.Notify(context.Background(), sampleNotice(ActionConfirmed))
	if err == nil {
		t.Fatal("Notify() error = nil, want joined failure")
	}
	if !receipt.Delivered {
		t.Error("receipt.Delivered = false, want true from the working sink")
	}
	if receipt.ArtifactSize != 128 {
		t.Errorf("receipt.ArtifactSize = %d, want 128", receipt.ArtifactSize)
	}
	if failing.calls != 1 || working.calls != 1 {
		t.Errorf("sink calls = %d/%d, want 1/1", failing.calls, working.calls)
	}
}
