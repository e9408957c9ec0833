package model

import "time"

// Event represents a calendar event in the database. Description, EndDate
// and Location are nullable columns, hence the pointer fields.
type Event struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	StartDate   time.Time
	EndDate     *time.Time
	Location    *string
	AllDay      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventRequest represents the body of a create or update event request.
// Pointer fields distinguish omitted values from explicit ones; a nil
// all_day normalizes to false.
type EventRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	StartDate   string  `json:"start_date" validate:"required,iso8601"`
	EndDate     *string `json:"end_date" validate:"omitempty,iso8601"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	AllDay      *bool   `json:"all_day"`
}

// EventFilter carries the raw list query parameters. Empty strings mean
// the bound is absent; both bounds are inclusive and apply to start_date.
type EventFilter struct {
	StartDate string
	EndDate   string
}

// EventResponse represents a single event in API responses.
type EventResponse struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"`
	AllDay      bool       `json:"all_day"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EventListResponse represents the list endpoint envelope.
type EventListResponse struct {
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Events  []EventResponse `json:"events"`
}

// EventEnvelope wraps a single event for get/create/update responses.
type EventEnvelope struct {
	Message string        `json:"message"`
	Event   EventResponse `json:"event"`
}

// DeleteEventResponse confirms a deletion with the removed event's ID.
type DeleteEventResponse struct {
	Message        string `json:"message"`
	DeletedEventID int64  `json:"deleted_event_id"`
}
