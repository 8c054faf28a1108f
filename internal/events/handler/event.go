package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"eventease/internal/events/service"
	"eventease/pkg/dates"
	apperrors "eventease/pkg/errors"
	httputil "eventease/pkg/http"
	"eventease/pkg/logger"
	"eventease/pkg/middleware"
	"eventease/pkg/model"
)

type EventHandler struct {
	service service.EventService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewEventHandler(service service.EventService, auth *middleware.Authenticator, log *logger.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *EventHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/events", h.List)
	router.GET("/api/v1/events/:id", h.GetByID)
	router.POST("/api/v1/events", h.auth.RequireRole(model.RoleAdmin, h.Create))
	router.PUT("/api/v1/events/:id", h.auth.Required(h.Update))
	router.DELETE("/api/v1/events/:id", h.auth.Required(h.Delete))
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.CapabilityFrom(r.Context())
	if !ok {
		h.writeError(w, "Create", apperrors.Unauthorized("Authentication required"))
		return
	}

	var req model.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	event, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, "Event created successfully", event); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.service.GetByEventID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, event); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	filter, err := parseEventFilter(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	offset := int64(page-1) * int64(limit)
	events, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, events, total, page, limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func parseEventFilter(r *http.Request) (model.EventFilter, error) {
	query := r.URL.Query()

	// "all" is what the web client sends for an unset dropdown.
	normalize := func(s string) string {
		if strings.EqualFold(s, "all") {
			return ""
		}
		return s
	}

	filter := model.EventFilter{
		Category:     normalize(query.Get("category")),
		LocationType: normalize(query.Get("locationType")),
	}

	if s := query.Get("dateFrom"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return model.EventFilter{}, apperrors.InvalidInput("invalid dateFrom parameter: " + s)
		}
		from := dates.StartOfDay(d)
		filter.DateFrom = &from
	}
	if s := query.Get("dateTo"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return model.EventFilter{}, apperrors.InvalidInput("invalid dateTo parameter: " + s)
		}
		to := dates.EndOfDay(d)
		filter.DateTo = &to
	}

	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return model.EventFilter{}, apperrors.InvalidInput("dateFrom must not be after dateTo")
	}

	return filter, nil
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.CapabilityFrom(r.Context())
	if !ok {
		h.writeError(w, "Update", apperrors.Unauthorized("Authentication required"))
		return
	}

	var req model.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	event, err := h.service.Update(r.Context(), actor, ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, event); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := middleware.CapabilityFrom(r.Context())
	if !ok {
		h.writeError(w, "Delete", apperrors.Unauthorized("Authentication required"))
		return
	}

	if err := h.service.Delete(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteSuccessMessage(w, "Event deleted successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "error", err)
	}
}

func (h *EventHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}
