package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eventtrail/eventtrail-go/internal/model"
	"github.com/eventtrail/eventtrail-go/internal/repository"
	"github.com/eventtrail/eventtrail-go/internal/validation"
)

// EventStore is the persistence surface the event service needs. Satisfied
// by repository.EventRepository; tests substitute an in-memory fake.
type EventStore interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, eventID, userID int64) (*model.Event, error)
	ListByUser(ctx context.Context, userID int64, from, to *time.Time) ([]model.Event, error)
	Update(ctx context.Context, eventID, userID int64, event *model.Event) (int64, error)
	Delete(ctx context.Context, eventID, userID int64) (int64, error)
}

// EventService handles event business logic. Every operation is scoped to
// the authenticated caller's user ID.
type EventService struct {
	events EventStore
}

// NewEventService creates a new EventService.
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// List returns the caller's events, optionally bounded by inclusive
// start-date filters, ascending by start date.
func (s *EventService) List(ctx context.Context, userID int64, filter model.EventFilter) (model.EventListResponse, error) {
	var fields []validation.FieldError
	var from, to *time.Time

	if filter.StartDate != "" {
		t, err := validation.ParseISO8601(filter.StartDate)
		if err != nil {
			fields = append(fields, validation.FieldError{Field: "start_date", Message: "must be a valid ISO 8601 date"})
		} else {
			from = &t
		}
	}
	if filter.EndDate != "" {
		t, err := validation.ParseISO8601(filter.EndDate)
		if err != nil {
			fields = append(fields, validation.FieldError{Field: "end_date", Message: "must be a valid ISO 8601 date"})
		} else {
			to = &t
		}
	}
	if fields != nil {
		return model.EventListResponse{}, &ValidationError{Fields: fields}
	}

	events, err := s.events.ListByUser(ctx, userID, from, to)
	if err != nil {
		return model.EventListResponse{}, err
	}

	return model.EventListResponse{
		Message: "Events retrieved successfully",
		Count:   len(events),
		Events:  eventsToResponse(events),
	}, nil
}

// Get returns a single event owned by the caller. A missing event and one
// owned by somebody else both return ErrEventNotFound.
func (s *EventService) Get(ctx context.Context, userID, eventID int64) (model.EventEnvelope, error) {
	event, err := s.events.GetByID(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return model.EventEnvelope{}, ErrEventNotFound
		}
		return model.EventEnvelope{}, err
	}

	return model.EventEnvelope{
		Message: "Event retrieved successfully",
		Event:   eventToResponse(*event),
	}, nil
}

// Create validates and persists a new event for the caller. Validation,
// including the date-range check, happens before any store call.
func (s *EventService) Create(ctx context.Context, userID int64, req model.EventRequest) (model.EventEnvelope, error) {
	event, err := buildEvent(userID, req)
	if err != nil {
		return model.EventEnvelope{}, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		return model.EventEnvelope{}, err
	}

	// Re-read for the server-assigned timestamps.
	created, err := s.events.GetByID(ctx, event.ID, userID)
	if err != nil {
		return model.EventEnvelope{}, err
	}

	return model.EventEnvelope{
		Message: "Event created successfully",
		Event:   eventToResponse(*created),
	}, nil
}

// Update performs a full replace of an event's mutable fields. Validation
// failures surface before the not-found check, matching create.
func (s *EventService) Update(ctx context.Context, userID, eventID int64, req model.EventRequest) (model.EventEnvelope, error) {
	event, err := buildEvent(userID, req)
	if err != nil {
		return model.EventEnvelope{}, err
	}

	// Ownership check first: a value-identical update changes zero rows in
	// MySQL, so the affected count alone cannot signal not-found.
	if _, err := s.events.GetByID(ctx, eventID, userID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return model.EventEnvelope{}, ErrEventNotFound
		}
		return model.EventEnvelope{}, err
	}

	if _, err := s.events.Update(ctx, eventID, userID, event); err != nil {
		return model.EventEnvelope{}, err
	}

	updated, err := s.events.GetByID(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return model.EventEnvelope{}, ErrEventNotFound
		}
		return model.EventEnvelope{}, err
	}

	return model.EventEnvelope{
		Message: "Event updated successfully",
		Event:   eventToResponse(*updated),
	}, nil
}

// Delete removes an event owned by the caller and echoes its ID.
func (s *EventService) Delete(ctx context.Context, userID, eventID int64) (model.DeleteEventResponse, error) {
	rows, err := s.events.Delete(ctx, eventID, userID)
	if err != nil {
		return model.DeleteEventResponse{}, err
	}
	if rows == 0 {
		return model.DeleteEventResponse{}, ErrEventNotFound
	}

	return model.DeleteEventResponse{
		Message:        "Event deleted successfully",
		DeletedEventID: eventID,
	}, nil
}

// buildEvent validates the request and assembles the event row. Empty
// optional strings are stored as NULL, and a nil all_day means false.
func buildEvent(userID int64, req model.EventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)

	if fields := validation.Struct(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	start, err := validation.ParseISO8601(req.StartDate)
	if err != nil {
		return nil, &ValidationError{Fields: []validation.FieldError{
			{Field: "start_date", Message: "must be a valid ISO 8601 date"},
		}}
	}

	var end *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		t, err := validation.ParseISO8601(*req.EndDate)
		if err != nil {
			return nil, &ValidationError{Fields: []validation.FieldError{
				{Field: "end_date", Message: "must be a valid ISO 8601 date"},
			}}
		}
		if t.Before(start) {
			return nil, ErrInvalidDateRange
		}
		end = &t
	}

	return &model.Event{
		UserID:      userID,
		Title:       req.Title,
		Description: optionalString(req.Description),
		StartDate:   start,
		EndDate:     end,
		Location:    optionalString(req.Location),
		AllDay:      req.AllDay != nil && *req.AllDay,
	}, nil
}

// optionalString maps empty strings to NULL.
func optionalString(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}

func eventToResponse(e model.Event) model.EventResponse {
	return model.EventResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Location:    e.Location,
		AllDay:      e.AllDay,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// eventsToResponse converts a slice of events, never returning nil so the
// JSON events array is always present.
func eventsToResponse(events []model.Event) []model.EventResponse {
	result := make([]model.EventResponse, len(events))
	for i, e := range events {
		result[i] = eventToResponse(e)
	}
	return result
}
