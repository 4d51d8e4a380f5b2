package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/eventbot/internal/models"
	"github.com/mmynk/eventbot/internal/storage"
)

// PutEvent persists an event, stamping its created/modified dates.
func (s *SQLiteStore) PutEvent(ctx context.Context, event *models.Event) error {
	event.Touch(time.Now().UTC())

	attendees, err := json.Marshal(event.Attendees)
	if err != nil {
		return fmt.Errorf("failed to marshal attendees: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (event_id, name, description, created_date, modified_date,
			start_date, end_date, status, creator, attendees, extra_attendees, cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			modified_date = excluded.modified_date,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status,
			creator = excluded.creator,
			attendees = excluded.attendees,
			extra_attendees = excluded.extra_attendees,
			cost = excluded.cost
	`, s.events)

	_, err = s.db.ExecContext(ctx, query,
		event.EventID,
		event.Name,
		event.Description,
		event.CreatedDate.UnixMilli(),
		event.ModifiedDate.UnixMilli(),
		nullableMilli(event.StartDate),
		nullableMilli(event.EndDate),
		event.Status,
		event.Creator,
		string(attendees),
		event.ExtraAttendees,
		event.Cost,
	)
	if err != nil {
		return fmt.Errorf("failed to put event %s: %w", event.EventID, err)
	}

	return nil
}

// GetEvent retrieves an event by id. Returns storage.ErrNotFound if absent.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	query := fmt.Sprintf(`
		SELECT event_id, name, description, created_date, modified_date,
			start_date, end_date, status, creator, attendees, extra_attendees, cost
		FROM %s
		WHERE event_id = ?
	`, s.events)

	event, err := scanEvent(s.db.QueryRowContext(ctx, query, eventID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", eventID, err)
	}
	return event, nil
}

// ListEvents pages through events with the given status using the status
// index. The cursor is the last event_id of the previous page.
func (s *SQLiteStore) ListEvents(ctx context.Context, status, cursor string, limit int) ([]*models.Event, string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := fmt.Sprintf(`
		SELECT event_id, name, description, created_date, modified_date,
			start_date, end_date, status, creator, attendees, extra_attendees, cost
		FROM %s
		WHERE status = ? AND event_id > ?
		ORDER BY event_id
		LIMIT ?
	`, s.events)

	rows, err := s.db.QueryContext(ctx, query, status, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to iterate events: %w", err)
	}

	next := ""
	if len(events) == limit {
		next = events[len(events)-1].EventID
	}
	return events, next, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	var (
		created, modified int64
		start, end        sql.NullInt64
		attendees         string
	)
	err := row.Scan(
		&event.EventID,
		&event.Name,
		&event.Description,
		&created,
		&modified,
		&start,
		&end,
		&event.Status,
		&event.Creator,
		&attendees,
		&event.ExtraAttendees,
		&event.Cost,
	)
	if err != nil {
		return nil, err
	}

	event.CreatedDate = time.UnixMilli(created).UTC()
	event.ModifiedDate = time.UnixMilli(modified).UTC()
	event.StartDate = milliTime(start)
	event.EndDate = milliTime(end)
	if err := json.Unmarshal([]byte(attendees), &event.Attendees); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attendees: %w", err)
	}
	return event, nil
}

func nullableMilli(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func milliTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64).UTC()
	return &t
}
