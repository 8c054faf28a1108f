package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eventease/internal/bookings/service"
	apperrors "eventease/pkg/errors"
	httputil "eventease/pkg/http"
	"eventease/pkg/logger"
	"eventease/pkg/middleware"
	"eventease/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, auth *middleware.Authenticator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.auth.Required(h.Create))
	router.GET("/api/v1/bookings", h.auth.Required(h.ListMine))
	router.GET("/api/v1/bookings/:id", h.auth.Required(h.GetByID))
	router.PUT("/api/v1/bookings/:id/cancel", h.auth.Required(h.Cancel))
	router.GET("/api/v1/events/:id/attendees", h.auth.Required(h.ListAttendees))
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.CapabilityFrom(r.Context())
	if !ok {
		h.writeError(w, "Create", apperrors.Unauthorized("Authentication required"))
		return
	}

	var req model.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	confirmation, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if confirmation.Warning != "" {
		if err := httputil.WriteCreatedWithWarning(w, "Booking confirmed", confirmation, confirmation.Warning); err != nil {
			h.log.Error("failed to write created response", "handler", "Create", "error", err)
		}
		return
	}

	if err := httputil.WriteCreated(w, "Booking confirmed", confirmation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.CapabilityFrom(r.Context())
	if !ok {
		h.writeError(w, "ListMine", apperrors.Unauthorized("Authentication required"))
		return
	}

	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	status := r.URL.Query().Get("status")
	offset := int64(page-1) * int64(limit)

	bookings, total, err := h.service.ListForUser(r.Context(), actor, status, limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, page, limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.CapabilityFrom(r.Context())
	if !ok {
		h.writeError(w, "GetByID", apperrors.Unauthorized("Authentication required"))
		return
	}

	booking, err := h.service.GetByBookingID(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.CapabilityFrom(r.Context())
	if !ok {
		h.writeError(w, "Cancel", apperrors.Unauthorized("Authentication required"))
		return
	}

	booking, err := h.service.Cancel(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

func (h *BookingHandler) ListAttendees(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.CapabilityFrom(r.Context())
	if !ok {
		h.writeError(w, "ListAttendees", apperrors.Unauthorized("Authentication required"))
		return
	}

	attendees, err := h.service.ListAttendees(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "ListAttendees", err)
		return
	}

	if err := httputil.WriteSuccess(w, attendees); err != nil {
		h.log.Error("failed to write success response", "handler", "ListAttendees", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}
