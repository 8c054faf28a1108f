package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	eventserrors "eventease/internal/events/errors"
	"eventease/internal/events/repository"
	"eventease/internal/events/validator"
	"eventease/pkg/config"
	"eventease/pkg/dates"
	apperrors "eventease/pkg/errors"
	"eventease/pkg/identifier"
	"eventease/pkg/model"
	"eventease/pkg/sanitizer"
)

// createAttempts bounds the insert retry loop for the rare case where a
// generated event ID collides after the pre-check.
const createAttempts = 3

type EventService interface {
	Create(ctx context.Context, actor model.Capability, req *model.CreateEventRequest) (*model.Event, error)
	GetByEventID(ctx context.Context, eventID string) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter, limit int, offset int64) ([]*model.Event, int64, error)
	Update(ctx context.Context, actor model.Capability, eventID string, req *model.UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, actor model.Capability, eventID string) error
}

type eventService struct {
	repo      repository.EventRepository
	validator *validator.EventValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewEventService(
	repo repository.EventRepository,
	validator *validator.EventValidator,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, actor model.Capability, req *model.CreateEventRequest) (*model.Event, error) {
	s.sanitizeCreate(req)

	if err := s.validator.ValidateCreate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			s.cfg.Log.Warn("Event validation failed", "title", req.Title, "error", err)
			return nil, apperrors.Validation("Event validation failed", map[string]any{
				"errors": verrs.Messages(),
			})
		}
		return nil, apperrors.Internal("Failed to validate event", err)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.Validation("Event validation failed", map[string]any{
			"errors": []string{"Date must be a date in YYYY-MM-DD format"},
		})
	}

	now := s.now()
	if date.Before(dates.StartOfDay(now)) {
		return nil, apperrors.Validation("Event validation failed", map[string]any{
			"errors": []string{"Date must not be in the past"},
		})
	}

	event := &model.Event{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		LocationType: req.LocationType,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Capacity:     req.Capacity,
		BookedSeats:  0,
		Price:        req.Price,
		Image:        req.Image,
		Organizer:    req.Organizer,
		CreatedBy:    actor.UserID,
	}

	// The pre-check inside ForEvent makes collisions rare; the unique
	// index on event_id is the second net, and the loop here absorbs
	// the window between the two.
	for attempt := 0; attempt < createAttempts; attempt++ {
		eventID, err := identifier.ForEvent(ctx, now, s.repo.ExistsByEventID)
		if err != nil {
			if errors.Is(err, identifier.ErrRetriesExhausted) {
				s.cfg.Log.Error("Event ID generation exhausted retries", "title", req.Title)
				return nil, apperrors.GenerationFailed("Could not allocate a unique event ID", err)
			}
			return nil, apperrors.Internal("Failed to generate event ID", err)
		}

		event.EventID = eventID
		err = s.repo.Create(ctx, event)
		if err == nil {
			event.Refresh(now)
			s.cfg.Log.Info("Event created successfully",
				"event_id", event.EventID,
				"title", event.Title,
				"created_by", actor.UserID,
			)
			return event, nil
		}
		if !errors.Is(err, eventserrors.ErrEventIDTaken) {
			s.cfg.Log.Error("Failed to create event", "title", req.Title, "error", err)
			return nil, apperrors.Internal("Failed to create event", err)
		}
	}

	s.cfg.Log.Error("Event ID collisions exhausted insert retries", "title", req.Title)
	return nil, apperrors.GenerationFailed("Could not allocate a unique event ID", eventserrors.ErrEventIDTaken)
}

func (s *eventService) GetByEventID(ctx context.Context, eventID string) (*model.Event, error) {
	if eventID == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, s.translateRepoError(eventID, err, "Failed to retrieve event")
	}

	event.Refresh(s.now())
	return event, nil
}

func (s *eventService) List(ctx context.Context, filter model.EventFilter, limit int, offset int64) ([]*model.Event, int64, error) {
	events, err := s.repo.FindMany(ctx, filter, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list events", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve events", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to count events", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve events", err)
	}

	now := s.now()
	for _, event := range events {
		event.Refresh(now)
	}

	return events, total, nil
}

func (s *eventService) Update(ctx context.Context, actor model.Capability, eventID string, req *model.UpdateEventRequest) (*model.Event, error) {
	if eventID == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	s.sanitizeUpdate(req)

	if err := s.validator.ValidateUpdate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Event validation failed", map[string]any{
				"errors": verrs.Messages(),
			})
		}
		return nil, apperrors.Internal("Failed to validate event", err)
	}

	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, s.translateRepoError(eventID, err, "Failed to retrieve event")
	}

	if !actor.CanAccess(event.CreatedBy) {
		return nil, apperrors.Forbidden("Not authorized to modify this event")
	}

	fields, guard, err := s.buildUpdateFields(event, req)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		event.Refresh(s.now())
		return event, nil
	}

	updated, err := s.repo.Update(ctx, eventID, fields, guard)
	if err != nil {
		if errors.Is(err, eventserrors.ErrUpdateConflict) {
			return nil, apperrors.Conflict("Capacity cannot be reduced below the number of booked seats")
		}
		return nil, s.translateRepoError(eventID, err, "Failed to update event")
	}

	updated.Refresh(s.now())
	s.cfg.Log.Info("Event updated successfully",
		"event_id", eventID,
		"updated_by", actor.UserID,
	)
	return updated, nil
}

func (s *eventService) buildUpdateFields(event *model.Event, req *model.UpdateEventRequest) (bson.M, bson.M, error) {
	fields := bson.M{}
	guard := bson.M{}

	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.LocationType != nil {
		fields["location_type"] = *req.LocationType
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, nil, apperrors.Validation("Event validation failed", map[string]any{
				"errors": []string{"Date must be a date in YYYY-MM-DD format"},
			})
		}
		if date.Before(dates.StartOfDay(s.now())) {
			return nil, nil, apperrors.Validation("Event validation failed", map[string]any{
				"errors": []string{"Date must not be in the past"},
			})
		}
		fields["date"] = date
	}
	if req.StartTime != nil {
		fields["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		fields["end_time"] = *req.EndTime
	}
	if req.Capacity != nil {
		if *req.Capacity < event.BookedSeats {
			return nil, nil, apperrors.Conflict("Capacity cannot be reduced below the number of booked seats")
		}
		fields["capacity"] = *req.Capacity
		// The check above is advisory; a reservation landing between the
		// read and the write would re-break the invariant, so the write
		// itself must only match while booked_seats still fits.
		guard["booked_seats"] = bson.M{"$lte": *req.Capacity}
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Organizer != nil {
		fields["organizer"] = *req.Organizer
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}

	return fields, guard, nil
}

func (s *eventService) Delete(ctx context.Context, actor model.Capability, eventID string) error {
	if eventID == "" {
		return apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return s.translateRepoError(eventID, err, "Failed to retrieve event")
	}

	if !actor.CanAccess(event.CreatedBy) {
		return apperrors.Forbidden("Not authorized to delete this event")
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return s.translateRepoError(eventID, err, "Failed to delete event")
	}

	s.cfg.Log.Info("Event deleted successfully",
		"event_id", eventID,
		"deleted_by", actor.UserID,
	)
	return nil
}

func (s *eventService) translateRepoError(eventID string, err error, fallback string) error {
	switch {
	case errors.Is(err, eventserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Event", eventID)
	case errors.Is(err, eventserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid event ID format")
	default:
		s.cfg.Log.Error(fallback, "event_id", eventID, "error", err)
		return apperrors.Internal(fallback, err)
	}
}

func (s *eventService) sanitizeCreate(req *model.CreateEventRequest) {
	req.Title = sanitizer.SanitizeText(req.Title)
	req.Description = sanitizer.SanitizeText(req.Description)
	req.Category = sanitizer.SanitizeText(req.Category)
	req.Location = sanitizer.SanitizeText(req.Location)
	req.LocationType = sanitizer.SanitizeText(req.LocationType)
	req.Organizer = sanitizer.SanitizeText(req.Organizer)
	req.StartTime = sanitizer.SanitizeTimeOfDay(req.StartTime)
	req.EndTime = sanitizer.SanitizeTimeOfDay(req.EndTime)
	req.Image = sanitizer.SanitizeImageURL(req.Image)
}

func (s *eventService) sanitizeUpdate(req *model.UpdateEventRequest) {
	sanitizeStr := func(p *string, fn func(string) string) {
		if p != nil {
			*p = fn(*p)
		}
	}
	sanitizeStr(req.Title, sanitizer.SanitizeText)
	sanitizeStr(req.Description, sanitizer.SanitizeText)
	sanitizeStr(req.Category, sanitizer.SanitizeText)
	sanitizeStr(req.Location, sanitizer.SanitizeText)
	sanitizeStr(req.LocationType, sanitizer.SanitizeText)
	sanitizeStr(req.Organizer, sanitizer.SanitizeText)
	sanitizeStr(req.StartTime, sanitizer.SanitizeTimeOfDay)
	sanitizeStr(req.EndTime, sanitizer.SanitizeTimeOfDay)
	sanitizeStr(req.Image, sanitizer.SanitizeImageURL)
}
