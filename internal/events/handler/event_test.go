package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"eventease/internal/events/service"
	apperrors "eventease/pkg/errors"
	"eventease/pkg/logger"
	"eventease/pkg/middleware"
	"eventease/pkg/model"
)

const testSecret = "handler-test-secret"

type mockEventService struct {
	createFunc func(ctx context.Context, actor model.Capability, req *model.CreateEventRequest) (*model.Event, error)
	getFunc    func(ctx context.Context, eventID string) (*model.Event, error)
	listFunc   func(ctx context.Context, filter model.EventFilter, limit int, offset int64) ([]*model.Event, int64, error)
	updateFunc func(ctx context.Context, actor model.Capability, eventID string, req *model.UpdateEventRequest) (*model.Event, error)
	deleteFunc func(ctx context.Context, actor model.Capability, eventID string) error
}

var _ service.EventService = (*mockEventService)(nil)

func (m *mockEventService) Create(ctx context.Context, actor model.Capability, req *model.CreateEventRequest) (*model.Event, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, actor, req)
	}
	return nil, apperrors.Internal("not implemented", nil)
}

func (m *mockEventService) GetByEventID(ctx context.Context, eventID string) (*model.Event, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, eventID)
	}
	return nil, apperrors.Internal("not implemented", nil)
}

func (m *mockEventService) List(ctx context.Context, filter model.EventFilter, limit int, offset int64) ([]*model.Event, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, limit, offset)
	}
	return nil, 0, apperrors.Internal("not implemented", nil)
}

func (m *mockEventService) Update(ctx context.Context, actor model.Capability, eventID string, req *model.UpdateEventRequest) (*model.Event, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, actor, eventID, req)
	}
	return nil, apperrors.Internal("not implemented", nil)
}

func (m *mockEventService) Delete(ctx context.Context, actor model.Capability, eventID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, actor, eventID)
	}
	return apperrors.Internal("not implemented", nil)
}

func newRouter(svc service.EventService) *httprouter.Router {
	auth := middleware.NewAuthenticator(testSecret, logger.Discard())
	h := NewEventHandler(svc, auth, logger.Discard())

	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func bearerToken(t *testing.T, userID, role string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, struct {
		jwt.RegisteredClaims
		Role string `json:"role"`
	}{
		jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		role,
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + token
}

func TestListEventsIsPublic(t *testing.T) {
	var gotFilter model.EventFilter
	svc := &mockEventService{
		listFunc: func(ctx context.Context, filter model.EventFilter, limit int, offset int64) ([]*model.Event, int64, error) {
			gotFilter = filter
			return []*model.Event{{EventID: "EVT-1"}}, 1, nil
		},
	}
	router := newRouter(svc)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/events?category=Tech&locationType=all&dateFrom=2026-03-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 without auth: %s", w.Code, w.Body.String())
	}
	if gotFilter.Category != "Tech" {
		t.Errorf("filter.Category = %q, want Tech", gotFilter.Category)
	}
	if gotFilter.LocationType != "" {
		t.Errorf("filter.LocationType = %q, want empty for 'all'", gotFilter.LocationType)
	}
	if gotFilter.DateFrom == nil || !gotFilter.DateFrom.Equal(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("filter.DateFrom = %v, want start of 2026-03-01", gotFilter.DateFrom)
	}
}

func TestGetEventIsPublic(t *testing.T) {
	svc := &mockEventService{
		getFunc: func(ctx context.Context, eventID string) (*model.Event, error) {
			return &model.Event{EventID: eventID}, nil
		},
	}
	router := newRouter(svc)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/events/EVT-MAR2026-A1B", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestCreateEventRequiresAdmin(t *testing.T) {
	svc := &mockEventService{
		createFunc: func(ctx context.Context, actor model.Capability, req *model.CreateEventRequest) (*model.Event, error) {
			return &model.Event{EventID: "EVT-MAR2026-A1B", Title: req.Title}, nil
		},
	}
	router := newRouter(svc)

	body := `{"title":"Go Meetup"}`

	t.Run("anonymous rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("plain user rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
		r.Header.Set("Authorization", bearerToken(t, "user-1", model.RoleUser))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("admin accepted", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
		r.Header.Set("Authorization", bearerToken(t, "admin-1", model.RoleAdmin))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusCreated {
			t.Errorf("status = %d, want 201: %s", w.Code, w.Body.String())
		}
	})
}

func TestDeleteEventEndpoint(t *testing.T) {
	svc := &mockEventService{
		deleteFunc: func(ctx context.Context, actor model.Capability, eventID string) error {
			if eventID != "EVT-MAR2026-A1B" {
				t.Errorf("eventID = %q, want EVT-MAR2026-A1B", eventID)
			}
			return nil
		},
	}
	router := newRouter(svc)

	r := httptest.NewRequest(http.MethodDelete, "/api/v1/events/EVT-MAR2026-A1B", nil)
	r.Header.Set("Authorization", bearerToken(t, "owner-1", model.RoleUser))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestListEventsRejectsBadDateFilter(t *testing.T) {
	router := newRouter(&mockEventService{})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/events?dateFrom=03/01/2026", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}
