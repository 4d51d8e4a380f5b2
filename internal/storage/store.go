// Package storage provides abstractions for persistent record storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/eventbot/internal/models"
)

// ErrNotFound is returned (wrapped) by lookups when a record does not
// exist. Absence is an expected outcome, not a failure: callers branch on
// it with errors.Is.
var ErrNotFound = errors.New("record not found")

// Store defines the record store operations eventbot needs: two
// independently keyed collections (events by event_id, users by user_id)
// with get/put/batch-get/scan semantics.
//
// This abstraction allows swapping storage backends (SQLite, Badger, ...)
// without changing the dispatch layer. Put operations stamp
// created/modified dates via the record's Touch method; saves are plain
// read-modify-write with last-write-wins semantics.
type Store interface {
	// GetEvent retrieves an event by id. Returns ErrNotFound if absent.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// PutEvent persists an event, stamping its created/modified dates.
	PutEvent(ctx context.Context, event *models.Event) error

	// ListEvents pages through events with the given status, maintained
	// by a store-side status index. cursor is the opaque token returned
	// by the previous page ("" for the first page); the returned cursor
	// is "" when there are no further pages.
	ListEvents(ctx context.Context, status, cursor string, limit int) ([]*models.Event, string, error)

	// GetUser retrieves a user by id. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// PutUser persists a user, stamping its created/modified dates.
	PutUser(ctx context.Context, user *models.User) error

	// BatchGetUsers retrieves the users that exist among ids. Missing ids
	// are silently omitted and result order is not guaranteed to match
	// input order.
	BatchGetUsers(ctx context.Context, ids []string) ([]*models.User, error)

	// ListUsers pages through all users, same cursor contract as
	// ListEvents.
	ListUsers(ctx context.Context, cursor string, limit int) ([]*models.User, string, error)

	// Close releases any resources held by the store.
	Close() error
}
