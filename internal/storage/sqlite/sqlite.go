// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/eventbot/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// defaultListLimit bounds list pages when the caller passes no limit.
const defaultListLimit = 50

// Config carries the schema metadata for the store. Table names live here,
// in configuration, not on the domain types.
type Config struct {
	// Path is the database file path. Parent directories are created.
	Path string

	// EventsTable and UsersTable name the two record collections.
	// Defaults: "events", "users".
	EventsTable string
	UsersTable  string
}

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	events string
	users  string
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// New creates a new SQLiteStore. It creates the parent directories and runs
// migrations automatically.
func New(cfg Config) (*SQLiteStore, error) {
	if cfg.EventsTable == "" {
		cfg.EventsTable = "events"
	}
	if cfg.UsersTable == "" {
		cfg.UsersTable = "users"
	}
	for _, table := range []string{cfg.EventsTable, cfg.UsersTable} {
		if !identPattern.MatchString(table) {
			return nil, fmt.Errorf("invalid table name: %q", table)
		}
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db, events: cfg.EventsTable, users: cfg.UsersTable}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
