package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"eventease/internal/bookings/service"
	apperrors "eventease/pkg/errors"
	"eventease/pkg/logger"
	"eventease/pkg/middleware"
	"eventease/pkg/model"
)

const testSecret = "handler-test-secret"

type mockBookingService struct {
	createFunc func(ctx context.Context, actor model.Capability, req *model.CreateBookingRequest) (*model.BookingConfirmation, error)
	cancelFunc func(ctx context.Context, actor model.Capability, bookingID string) (*model.Booking, error)
	getFunc    func(ctx context.Context, actor model.Capability, bookingID string) (*model.Booking, error)
	listFunc   func(ctx context.Context, actor model.Capability, status string, limit int, offset int64) ([]*model.Booking, int64, error)
	attendFunc func(ctx context.Context, actor model.Capability, eventID string) ([]*model.Booking, error)
}

var _ service.BookingService = (*mockBookingService)(nil)

func (m *mockBookingService) Create(ctx context.Context, actor model.Capability, req *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, actor, req)
	}
	return nil, apperrors.Internal("not implemented", nil)
}

func (m *mockBookingService) Cancel(ctx context.Context, actor model.Capability, bookingID string) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, actor, bookingID)
	}
	return nil, apperrors.Internal("not implemented", nil)
}

func (m *mockBookingService) GetByBookingID(ctx context.Context, actor model.Capability, bookingID string) (*model.Booking, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, actor, bookingID)
	}
	return nil, apperrors.Internal("not implemented", nil)
}

func (m *mockBookingService) ListForUser(ctx context.Context, actor model.Capability, status string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, actor, status, limit, offset)
	}
	return nil, 0, apperrors.Internal("not implemented", nil)
}

func (m *mockBookingService) ListAttendees(ctx context.Context, actor model.Capability, eventID string) ([]*model.Booking, error) {
	if m.attendFunc != nil {
		return m.attendFunc(ctx, actor, eventID)
	}
	return nil, apperrors.Internal("not implemented", nil)
}

func newRouter(svc service.BookingService) *httprouter.Router {
	auth := middleware.NewAuthenticator(testSecret, logger.Discard())
	h := NewBookingHandler(svc, auth, logger.Discard())

	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func bearerToken(t *testing.T, userID, role string) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, struct {
		jwt.RegisteredClaims
		Role string `json:"role"`
	}{claims, role}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + token
}

func decodeEnvelope(t *testing.T, body string) map[string]any {
	t.Helper()

	var env map[string]any
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, body)
	}
	return env
}

func TestCreateBookingEndpoint(t *testing.T) {
	t.Run("created with envelope", func(t *testing.T) {
		svc := &mockBookingService{
			createFunc: func(ctx context.Context, actor model.Capability, req *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
				if actor.UserID != "user-1" {
					t.Errorf("actor = %q, want user-1", actor.UserID)
				}
				return &model.BookingConfirmation{
					Booking: &model.Booking{BookingID: "BK-A1B2C3D4", Status: model.BookingConfirmed},
					Event:   &model.Event{EventID: req.EventID},
				}, nil
			},
		}
		router := newRouter(svc)

		r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings",
			strings.NewReader(`{"eventId":"EVT-NOV2026-A1B","seats":2}`))
		r.Header.Set("Authorization", bearerToken(t, "user-1", model.RoleUser))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
		}
		env := decodeEnvelope(t, w.Body.String())
		if env["success"] != true {
			t.Errorf("success = %v, want true", env["success"])
		}
		if _, hasWarning := env["warning"]; hasWarning {
			t.Error("warning present on clean create")
		}
	})

	t.Run("warning surfaces in envelope", func(t *testing.T) {
		svc := &mockBookingService{
			createFunc: func(ctx context.Context, actor model.Capability, req *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
				return &model.BookingConfirmation{
					Booking: &model.Booking{BookingID: "BK-A1B2C3D4"},
					Event:   &model.Event{},
					Warning: "confirmation notice could not be delivered",
				}, nil
			},
		}
		router := newRouter(svc)

		r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings",
			strings.NewReader(`{"eventId":"EVT-NOV2026-A1B","seats":1}`))
		r.Header.Set("Authorization", bearerToken(t, "user-1", model.RoleUser))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", w.Code)
		}
		env := decodeEnvelope(t, w.Body.String())
		if env["warning"] == nil || env["warning"] == "" {
			t.Errorf("warning missing from envelope: %s", w.Body.String())
		}
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		router := newRouter(&mockBookingService{})

		r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings",
			strings.NewReader(`{"eventId":"EVT-NOV2026-A1B","seats":1}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		router := newRouter(&mockBookingService{})

		r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{`))
		r.Header.Set("Authorization", bearerToken(t, "user-1", model.RoleUser))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		env := decodeEnvelope(t, w.Body.String())
		if env["success"] != false {
			t.Errorf("success = %v, want false", env["success"])
		}
	})

	t.Run("service conflict maps to 409", func(t *testing.T) {
		svc := &mockBookingService{
			createFunc: func(ctx context.Context, actor model.Capability, req *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
				return nil, apperrors.Conflict("Not enough seats available")
			},
		}
		router := newRouter(svc)

		r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings",
			strings.NewReader(`{"eventId":"EVT-NOV2026-A1B","seats":2}`))
		r.Header.Set("Authorization", bearerToken(t, "user-1", model.RoleUser))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}
	})
}

func TestCancelBookingEndpoint(t *testing.T) {
	svc := &mockBookingService{
		cancelFunc: func(ctx context.Context, actor model.Capability, bookingID string) (*model.Booking, error) {
			if bookingID != "BK-A1B2C3D4" {
				t.Errorf("bookingID = %q, want BK-A1B2C3D4", bookingID)
			}
			return &model.Booking{BookingID: bookingID, Status: model.BookingCancelled}, nil
		},
	}
	router := newRouter(svc)

	r := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/BK-A1B2C3D4/cancel", nil)
	r.Header.Set("Authorization", bearerToken(t, "user-1", model.RoleUser))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestListMineEndpoint(t *testing.T) {
	svc := &mockBookingService{
		listFunc: func(ctx context.Context, actor model.Capability, status string, limit int, offset int64) ([]*model.Booking, int64, error) {
			if status != model.BookingConfirmed {
				t.Errorf("status = %q, want confirmed", status)
			}
			if limit != 5 || offset != 5 {
				t.Errorf("limit/offset = %d/%d, want 5/5", limit, offset)
			}
			return []*model.Booking{{BookingID: "BK-1"}}, 11, nil
		},
	}
	router := newRouter(svc)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=confirmed&page=2&limit=5", nil)
	r.Header.Set("Authorization", bearerToken(t, "user-1", model.RoleUser))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	env := decodeEnvelope(t, w.Body.String())
	data := env["data"].(map[string]any)
	pagination := data["pagination"].(map[string]any)
	if pagination["total"] != float64(11) {
		t.Errorf("pagination.total = %v, want 11", pagination["total"])
	}
	if pagination["pages"] != float64(3) {
		t.Errorf("pagination.pages = %v, want 3", pagination["pages"])
	}
}

func TestAttendeesEndpoint(t *testing.T) {
	svc := &mockBookingService{
		attendFunc: func(ctx context.Context, actor model.Capability, eventID string) ([]*model.Booking, error) {
			if eventID != "EVT-NOV2026-A1B" {
				t.Errorf("eventID = %q, want EVT-NOV2026-A1B", eventID)
			}
			return []*model.Booking{{BookingID: "BK-1"}, {BookingID: "BK-2"}}, nil
		},
	}
	router := newRouter(svc)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/events/EVT-NOV2026-A1B/attendees", nil)
	r.Header.Set("Authorization", bearerToken(t, "organizer-1", model.RoleAdmin))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}
