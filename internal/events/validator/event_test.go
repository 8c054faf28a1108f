package validator

import (
	"errors"
	"strings"
	"testing"

	"eventease/pkg/logger"
	"eventease/pkg/model"
)

func validCreateRequest() *model.CreateEventRequest {
	return &model.CreateEventRequest{
		Title:        "Go Meetup",
		Description:  "Monthly gathering of Go developers",
		Category:     "Tech",
		Location:     "Community Hall",
		LocationType: model.LocationInPerson,
		Date:         "2026-11-20",
		StartTime:    "18:30",
		EndTime:      "21:00",
		Capacity:     50,
		Price:        0,
		Organizer:    "GoBerlin",
	}
}

func TestEventValidatorCreate(t *testing.T) {
	v := NewEventValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(*model.CreateEventRequest)
		wantField string
	}{
		{
			name:   "valid request",
			mutate: func(r *model.CreateEventRequest) {},
		},
		{
			name:      "missing title",
			mutate:    func(r *model.CreateEventRequest) { r.Title = "" },
			wantField: "Title",
		},
		{
			name:      "title too short",
			mutate:    func(r *model.CreateEventRequest) { r.Title = "Go" },
			wantField: "Title",
		},
		{
			name:      "unknown category",
			mutate:    func(r *model.CreateEventRequest) { r.Category = "Pottery" },
			wantField: "Category",
		},
		{
			name:      "bad location type",
			mutate:    func(r *model.CreateEventRequest) { r.LocationType = "hybrid" },
			wantField: "LocationType",
		},
		{
			name:      "date not ISO",
			mutate:    func(r *model.CreateEventRequest) { r.Date = "20/11/2026" },
			wantField: "Date",
		},
		{
			name:      "start time not HH:MM",
			mutate:    func(r *model.CreateEventRequest) { r.StartTime = "6pm" },
			wantField: "StartTime",
		},
		{
			name:      "zero capacity",
			mutate:    func(r *model.CreateEventRequest) { r.Capacity = 0 },
			wantField: "Capacity",
		},
		{
			name:      "negative price",
			mutate:    func(r *model.CreateEventRequest) { r.Price = -5 },
			wantField: "Price",
		},
		{
			name:      "missing organizer",
			mutate:    func(r *model.CreateEventRequest) { r.Organizer = "" },
			wantField: "Organizer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)

			err := v.ValidateCreate(req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateCreate() error = %v, want nil", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("ValidateCreate() error = %v, want ValidationErrors", err)
			}

			found := false
			for _, ve := range verrs {
				if ve.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("ValidateCreate() errors = %v, want error on field %s", verrs, tt.wantField)
			}
		})
	}
}

func TestEventValidatorUpdate(t *testing.T) {
	v := NewEventValidator(logger.Discard())

	strPtr := func(s string) *string { return &s }
	intPtr := func(n int) *int { return &n }

	t.Run("empty update is valid", func(t *testing.T) {
		if err := v.ValidateUpdate(&model.UpdateEventRequest{}); err != nil {
			t.Errorf("ValidateUpdate() error = %v, want nil", err)
		}
	})

	t.Run("partial update is valid", func(t *testing.T) {
		req := &model.UpdateEventRequest{
			Title:    strPtr("Updated Title"),
			Capacity: intPtr(80),
		}
		if err := v.ValidateUpdate(req); err != nil {
			t.Errorf("ValidateUpdate() error = %v, want nil", err)
		}
	})

	t.Run("bad fields still rejected", func(t *testing.T) {
		req := &model.UpdateEventRequest{
			Category:  strPtr("Pottery"),
			StartTime: strPtr("25:99"),
		}
		err := v.ValidateUpdate(req)

		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("ValidateUpdate() error = %v, want ValidationErrors", err)
		}
		if len(verrs) != 2 {
			t.Errorf("ValidateUpdate() returned %d errors, want 2: %v", len(verrs), verrs)
		}
	})
}

func TestValidationErrorsMessages(t *testing.T) {
	verrs := ValidationErrors{
		{Field: "Title", Message: "Title is required"},
		{Field: "Capacity", Message: "Capacity must be at least 1"},
	}

	msgs := verrs.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Messages() returned %d entries, want 2", len(msgs))
	}
	if !strings.Contains(verrs.Error(), "2 error(s)") {
		t.Errorf("Error() = %q, want the error count mentioned", verrs.Error())
	}
}
