package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eventtrail/eventtrail-go/internal/middleware"
	"github.com/eventtrail/eventtrail-go/internal/model"
	"github.com/eventtrail/eventtrail-go/internal/service"
)

// EventService is the event surface the handlers call. Satisfied by
// service.EventService.
type EventService interface {
	List(ctx context.Context, userID int64, filter model.EventFilter) (model.EventListResponse, error)
	Get(ctx context.Context, userID, eventID int64) (model.EventEnvelope, error)
	Create(ctx context.Context, userID int64, req model.EventRequest) (model.EventEnvelope, error)
	Update(ctx context.Context, userID, eventID int64, req model.EventRequest) (model.EventEnvelope, error)
	Delete(ctx context.Context, userID, eventID int64) (model.DeleteEventResponse, error)
}

// EventHandler handles HTTP requests for event operations. All routes sit
// behind the JWT middleware, which guarantees an identity in the context.
type EventHandler struct {
	service EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{service: svc}
}

// HandleList handles GET /api/events requests.
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Access denied", "no token provided"))
		return
	}

	filter := model.EventFilter{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	resp, err := h.service.List(r.Context(), user.ID, filter)
	if err != nil {
		h.writeEventError(w, "Failed to retrieve events", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /api/events/{id} requests.
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Access denied", "no token provided"))
		return
	}

	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), user.ID, eventID)
	if err != nil {
		h.writeEventError(w, "Failed to retrieve event", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /api/events requests.
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Access denied", "no token provided"))
		return
	}

	var req model.EventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), user.ID, req)
	if err != nil {
		h.writeEventError(w, "Failed to create event", err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleUpdate handles PUT /api/events/{id} requests.
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Access denied", "no token provided"))
		return
	}

	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}

	var req model.EventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Update(r.Context(), user.ID, eventID, req)
	if err != nil {
		h.writeEventError(w, "Failed to update event", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/events/{id} requests.
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Access denied", "no token provided"))
		return
	}

	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Delete(r.Context(), user.ID, eventID)
	if err != nil {
		h.writeEventError(w, "Failed to delete event", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// eventIDParam parses the {id} URL parameter, writing a 400 response when
// it is not a positive integer.
func eventIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid event ID", "event ID must be a positive integer"))
		return 0, false
	}
	return id, true
}

// writeEventError maps service errors to HTTP responses; category names
// the failed operation in the error envelope.
func (h *EventHandler) writeEventError(w http.ResponseWriter, category string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, validationResponse(verr.Fields))
	case errors.Is(err, service.ErrInvalidDateRange):
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid date range", err.Error()))
	case errors.Is(err, service.ErrEventNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse("Event not found", err.Error()))
	default:
		internalError(w, category, err)
	}
}
