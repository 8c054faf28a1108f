package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "eventease/internal/bookings/errors"
	"eventease/internal/bookings/repository"
	"eventease/internal/bookings/validator"
	eventserrors "eventease/internal/events/errors"
	eventsrepo "eventease/internal/events/repository"
	"eventease/internal/ledger"
	"eventease/internal/notification"
	"eventease/pkg/config"
	"eventease/pkg/dates"
	apperrors "eventease/pkg/errors"
	"eventease/pkg/identifier"
	"eventease/pkg/model"
)

// insertAttempts bounds the retry loop for booking ID collisions.
const insertAttempts = 3

const notificationWarning = "Booking confirmed, but the confirmation notice could not be delivered"

type BookingService interface {
	Create(ctx context.Context, actor model.Capability, req *model.CreateBookingRequest) (*model.BookingConfirmation, error)
	Cancel(ctx context.Context, actor model.Capability, bookingID string) (*model.Booking, error)
	GetByBookingID(ctx context.Context, actor model.Capability, bookingID string) (*model.Booking, error)
	ListForUser(ctx context.Context, actor model.Capability, status string, limit int, offset int64) ([]*model.Booking, int64, error)
	ListAttendees(ctx context.Context, actor model.Capability, eventID string) ([]*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	events    eventsrepo.EventRepository
	seats     ledger.SeatLedger
	sink      notification.Sink
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	events eventsrepo.EventRepository,
	seats ledger.SeatLedger,
	sink notification.Sink,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		events:    events,
		seats:     seats,
		sink:      sink,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, actor model.Capability, req *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
	if err := s.validator.ValidateCreate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Booking validation failed", map[string]any{
				"errors": verrs.Messages(),
			})
		}
		return nil, apperrors.Internal("Failed to validate booking", err)
	}

	event, err := s.events.FindByEventID(ctx, req.EventID)
	if err != nil {
		return nil, s.translateEventError(req.EventID, err)
	}

	now := s.now()
	if dates.IsEventStarted(event.Date, event.StartTime, now) {
		return nil, apperrors.Conflict("Cannot book an event that has already started")
	}

	// Advisory pre-check; the partial unique index is the real guard.
	if _, err := s.repo.FindConfirmedByUserAndEvent(ctx, actor.UserID, req.EventID); err == nil {
		return nil, apperrors.Conflict("You already have a confirmed booking for this event")
	} else if !errors.Is(err, bookingserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check for existing booking",
			"user_id", actor.UserID,
			"event_id", req.EventID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	if err := s.seats.Reserve(ctx, req.EventID, req.Seats); err != nil {
		switch {
		case errors.Is(err, ledger.ErrCapacityExceeded):
			return nil, apperrors.Conflict("Not enough seats available")
		case errors.Is(err, ledger.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Event", req.EventID)
		default:
			s.cfg.Log.Error("Failed to reserve seats",
				"event_id", req.EventID,
				"seats", req.Seats,
				"error", err,
			)
			return nil, apperrors.Internal("Failed to reserve seats", err)
		}
	}

	booking := &model.Booking{
		UserID:      actor.UserID,
		EventID:     req.EventID,
		Seats:       req.Seats,
		TotalAmount: event.Price * float64(req.Seats),
		Status:      model.BookingConfirmed,
		BookingDate: now.UTC().Truncate(time.Millisecond),
	}

	if err := s.insertWithRetry(ctx, booking); err != nil {
		s.release(ctx, req.EventID, req.Seats)

		if errors.Is(err, bookingserrors.ErrDuplicateBooking) {
			return nil, apperrors.Conflict("You already have a confirmed booking for this event")
		}
		s.cfg.Log.Error("Failed to persist booking",
			"user_id", actor.UserID,
			"event_id", req.EventID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	event.BookedSeats += req.Seats
	event.Refresh(now)

	confirmation := &model.BookingConfirmation{
		Booking: booking,
		Event:   event,
	}

	if _, err := s.sink.Notify(ctx, notification.Notice{
		Action:  notification.ActionConfirmed,
		Booking: booking,
		Event:   event,
	}); err != nil {
		s.cfg.Log.Warn("Booking confirmation notice failed",
			"booking_id", booking.BookingID,
			"error", err,
		)
		confirmation.Warning = notificationWarning
	}

	s.cfg.Log.Info("Booking created successfully",
		"booking_id", booking.BookingID,
		"user_id", actor.UserID,
		"event_id", req.EventID,
		"seats", req.Seats,
	)
	return confirmation, nil
}

func (s *bookingService) insertWithRetry(ctx context.Context, booking *model.Booking) error {
	for attempt := 0; attempt < insertAttempts; attempt++ {
		booking.BookingID = identifier.ForBooking()

		err := s.repo.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, bookingserrors.ErrBookingIDTaken) {
			return err
		}
	}
	return bookingserrors.ErrBookingIDTaken
}

// release is the compensating action after a failed persist. A failed
// release leaves the ledger over-counted, which is the one state that
// needs operator attention.
func (s *bookingService) release(ctx context.Context, eventID string, seats int) {
	if err := s.seats.Release(ctx, eventID, seats); err != nil {
		s.cfg.Log.Error("CRITICAL: seat release failed after persist failure, ledger over-counts",
			"event_id", eventID,
			"seats", seats,
			"error", err,
		)
	}
}

func (s *bookingService) Cancel(ctx context.Context, actor model.Capability, bookingID string) (*model.Booking, error) {
	booking, err := s.loadOwned(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingCancelled {
		return nil, apperrors.Conflict("Booking is already cancelled")
	}

	event, err := s.events.FindByEventID(ctx, booking.EventID)
	if err != nil && !errors.Is(err, eventserrors.ErrNotFound) {
		return nil, s.translateEventError(booking.EventID, err)
	}
	if event != nil && dates.IsEventStarted(event.Date, event.StartTime, s.now()) {
		return nil, apperrors.Conflict("Cannot cancel a booking after the event has started")
	}

	cancelledAt := s.now().UTC().Truncate(time.Millisecond)

	var cancelled *model.Booking
	if event != nil && s.cfg.MongoTransactions {
		cancelled, err = s.cancelInTransaction(ctx, booking, cancelledAt)
	} else {
		cancelled, err = s.cancelWithCompensation(ctx, booking, event != nil, cancelledAt)
	}
	if err != nil {
		return nil, err
	}

	if event != nil {
		event.BookedSeats -= cancelled.Seats
		if event.BookedSeats < 0 {
			event.BookedSeats = 0
		}
		event.Refresh(s.now())

		if _, err := s.sink.Notify(ctx, notification.Notice{
			Action:  notification.ActionCancelled,
			Booking: cancelled,
			Event:   event,
		}); err != nil {
			s.cfg.Log.Warn("Booking cancellation notice failed",
				"booking_id", bookingID,
				"error", err,
			)
		}
	}

	s.cfg.Log.Info("Booking cancelled successfully",
		"booking_id", bookingID,
		"user_id", actor.UserID,
	)
	return cancelled, nil
}

// cancelInTransaction runs the seat release and the status flip in one
// MongoDB transaction. A racing cancel aborts the transaction, which
// rolls the release back; no manual compensation is needed.
func (s *bookingService) cancelInTransaction(ctx context.Context, booking *model.Booking, cancelledAt time.Time) (*model.Booking, error) {
	var cancelled *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.seats.Release(txCtx, booking.EventID, booking.Seats); err != nil && !errors.Is(err, ledger.ErrNotFound) {
			return err
		}

		var uerr error
		cancelled, uerr = s.repo.UpdateStatus(txCtx, booking.BookingID, model.BookingConfirmed, model.BookingCancelled, &cancelledAt)
		return uerr
	})
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.Conflict("Booking is already cancelled")
		}
		s.cfg.Log.Error("Failed to persist cancellation",
			"booking_id", booking.BookingID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	return cancelled, nil
}

// cancelWithCompensation is the standalone-deployment path: seats go
// back first, so a crash before the status flip leaves the event
// under-counted, which is the safe direction. A racing cancel is
// detected by the conditional update and compensated by re-reserving.
func (s *bookingService) cancelWithCompensation(ctx context.Context, booking *model.Booking, hasEvent bool, cancelledAt time.Time) (*model.Booking, error) {
	if hasEvent {
		if err := s.seats.Release(ctx, booking.EventID, booking.Seats); err != nil && !errors.Is(err, ledger.ErrNotFound) {
			s.cfg.Log.Error("Failed to release seats on cancel",
				"booking_id", booking.BookingID,
				"event_id", booking.EventID,
				"error", err,
			)
			return nil, apperrors.Internal("Failed to cancel booking", err)
		}
	}

	cancelled, err := s.repo.UpdateStatus(ctx, booking.BookingID, model.BookingConfirmed, model.BookingCancelled, &cancelledAt)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			// A concurrent cancel won the conditional update. Take the
			// seats back so the ledger is not double-released.
			if hasEvent {
				if rerr := s.seats.Reserve(ctx, booking.EventID, booking.Seats); rerr != nil {
					s.cfg.Log.Error("CRITICAL: failed to re-reserve seats after racing cancel",
						"booking_id", booking.BookingID,
						"event_id", booking.EventID,
						"error", rerr,
					)
				}
			}
			return nil, apperrors.Conflict("Booking is already cancelled")
		}
		s.cfg.Log.Error("Failed to persist cancellation",
			"booking_id", booking.BookingID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	return cancelled, nil
}

func (s *bookingService) GetByBookingID(ctx context.Context, actor model.Capability, bookingID string) (*model.Booking, error) {
	return s.loadOwned(ctx, actor, bookingID)
}

func (s *bookingService) loadOwned(ctx context.Context, actor model.Capability, bookingID string) (*model.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		case errors.Is(err, bookingserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		default:
			s.cfg.Log.Error("Failed to load booking", "booking_id", bookingID, "error", err)
			return nil, apperrors.Internal("Failed to retrieve booking", err)
		}
	}

	if !actor.CanAccess(booking.UserID) {
		return nil, apperrors.Forbidden("Not authorized to access this booking")
	}

	return booking, nil
}

func (s *bookingService) ListForUser(ctx context.Context, actor model.Capability, status string, limit int, offset int64) ([]*model.Booking, int64, error) {
	switch status {
	case "", model.BookingConfirmed, model.BookingCancelled:
	default:
		return nil, 0, apperrors.InvalidInput("invalid status filter: " + status)
	}

	bookings, err := s.repo.FindByUser(ctx, actor.UserID, status, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "user_id", actor.UserID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	total, err := s.repo.CountByUser(ctx, actor.UserID, status)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "user_id", actor.UserID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, total, nil
}

func (s *bookingService) ListAttendees(ctx context.Context, actor model.Capability, eventID string) ([]*model.Booking, error) {
	if eventID == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.events.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, s.translateEventError(eventID, err)
	}

	if !actor.CanAccess(event.CreatedBy) {
		return nil, apperrors.Forbidden("Not authorized to view attendees for this event")
	}

	bookings, err := s.repo.FindConfirmedByEvent(ctx, eventID)
	if err != nil {
		s.cfg.Log.Error("Failed to list attendees", "event_id", eventID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve attendees", err)
	}

	return bookings, nil
}

func (s *bookingService) translateEventError(eventID string, err error) error {
	switch {
	case errors.Is(err, eventserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Event", eventID)
	case errors.Is(err, eventserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid event ID format")
	default:
		s.cfg.Log.Error("Failed to load event", "event_id", eventID, "error", err)
		return apperrors.Internal("Failed to retrieve event", err)
	}
}
