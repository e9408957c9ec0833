package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/eventtrail/eventtrail-go/internal/model"
)

var ErrEventNotFound = errors.New("event not found")

const eventColumns = `id, user_id, title, description, start_date, end_date, location, all_day, created_at, updated_at`

// EventRepository handles event persistence operations. Every query is
// scoped by owner, so an event belonging to another user is
// indistinguishable from a missing one.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event and sets the generated ID on the event struct.
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `INSERT INTO events (user_id, title, description, start_date, end_date, location, all_day)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		event.UserID, event.Title, event.Description,
		event.StartDate, event.EndDate, event.Location, event.AllDay,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	event.ID = id
	return nil
}

// GetByID retrieves an event by ID and owner.
func (r *EventRepository) GetByID(ctx context.Context, eventID, userID int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ? AND user_id = ?`

	event := &model.Event{}
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(
		&event.ID, &event.UserID, &event.Title, &event.Description,
		&event.StartDate, &event.EndDate, &event.Location, &event.AllDay,
		&event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

// ListByUser retrieves a user's events ordered ascending by start date.
// The optional bounds are inclusive and filter on start_date.
func (r *EventRepository) ListByUser(ctx context.Context, userID int64, from, to *time.Time) ([]model.Event, error) {
	query, args := listQuery(userID, from, to)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Title, &e.Description,
			&e.StartDate, &e.EndDate, &e.Location, &e.AllDay,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// listQuery builds the list statement with whichever bounds are present.
func listQuery(userID int64, from, to *time.Time) (string, []any) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = ?`
	args := []any{userID}

	if from != nil {
		query += ` AND start_date >= ?`
		args = append(args, *from)
	}
	if to != nil {
		query += ` AND start_date <= ?`
		args = append(args, *to)
	}

	query += ` ORDER BY start_date ASC`
	return query, args
}

// Update replaces the mutable fields of an event and refreshes updated_at,
// returning the number of rows changed. Zero means the event does not
// exist, belongs to a different user, or already held identical values —
// callers that need to distinguish those cases check ownership first.
func (r *EventRepository) Update(ctx context.Context, eventID, userID int64, event *model.Event) (int64, error) {
	query := `UPDATE events
		SET title = ?, description = ?, start_date = ?, end_date = ?, location = ?, all_day = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		event.Title, event.Description, event.StartDate,
		event.EndDate, event.Location, event.AllDay,
		eventID, userID,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// Delete removes an event by ID and owner, returning the number of rows
// removed. Zero means not found or not owned.
func (r *EventRepository) Delete(ctx context.Context, eventID, userID int64) (int64, error) {
	query := `DELETE FROM events WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
