package sqlite

import "fmt"

// schemaTemplate contains the SQL statements to set up the record tables.
// These run on startup to ensure tables exist. Table names are injected
// from configuration (validated as identifiers in New).
//
// Attendees are stored as a JSON value on the event row: attendee links are
// by value, there is no relation table.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
    event_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_date INTEGER NOT NULL,
    modified_date INTEGER NOT NULL,
    start_date INTEGER,
    end_date INTEGER,
    status TEXT NOT NULL,
    creator TEXT NOT NULL,
    attendees TEXT NOT NULL DEFAULT '[]',
    extra_attendees INTEGER NOT NULL DEFAULT 0,
    cost INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_status ON %[1]s(status, event_id);

CREATE TABLE IF NOT EXISTS %[2]s (
    user_id TEXT PRIMARY KEY,
    venmo_handle TEXT NOT NULL DEFAULT '',
    created_date INTEGER NOT NULL,
    modified_date INTEGER NOT NULL
);
`

// runMigrations executes the schema setup.
func (s *SQLiteStore) runMigrations() error {
	_, err := s.db.Exec(fmt.Sprintf(schemaTemplate, s.events, s.users))
	return err
}
