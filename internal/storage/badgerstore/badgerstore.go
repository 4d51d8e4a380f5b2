// Package badgerstore provides a BadgerDB-backed implementation of the
// storage.Store interface.
//
// Records are JSON-marshaled under "event:{id}" and "user:{id}" keys. A
// secondary index "event_status:{status}:{id}" is maintained on every event
// put so events can be listed by status with a prefix scan; key order gives
// cursor pagination for free.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/mmynk/eventbot/internal/models"
	"github.com/mmynk/eventbot/internal/storage"
)

// Ensure BadgerStore implements storage.Store
var _ storage.Store = (*BadgerStore)(nil)

const (
	eventPrefix  = "event:"
	userPrefix   = "user:"
	statusPrefix = "event_status:"

	defaultListLimit = 50
)

// BadgerStore implements storage.Store using BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// New opens (or creates) a Badger database at path.
func New(path string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func eventKey(id string) []byte { return []byte(eventPrefix + id) }

func userKey(id string) []byte { return []byte(userPrefix + id) }

func statusKey(status, id string) []byte {
	return []byte(statusPrefix + status + ":" + id)
}

// PutEvent persists an event and refreshes its status index entry.
func (s *BadgerStore) PutEvent(_ context.Context, event *models.Event) error {
	event.Touch(time.Now().UTC())

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventID, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		// Drop the previous status index entry if the status changed.
		if prev, err := getEvent(txn, event.EventID); err == nil && prev.Status != event.Status {
			if err := txn.Delete(statusKey(prev.Status, prev.EventID)); err != nil {
				return err
			}
		}
		if err := txn.Set(eventKey(event.EventID), data); err != nil {
			return err
		}
		return txn.Set(statusKey(event.Status, event.EventID), nil)
	})
	if err != nil {
		return fmt.Errorf("failed to put event %s: %w", event.EventID, err)
	}
	return nil
}

// GetEvent retrieves an event by id. Returns storage.ErrNotFound if absent.
func (s *BadgerStore) GetEvent(_ context.Context, eventID string) (*models.Event, error) {
	var event *models.Event
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		event, err = getEvent(txn, eventID)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", eventID, err)
	}
	return event, nil
}

// ListEvents pages through events with the given status via a prefix scan
// over the status index. The cursor is the last event_id of the previous
// page.
func (s *BadgerStore) ListEvents(_ context.Context, status, cursor string, limit int) ([]*models.Event, string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var events []*models.Event
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(statusPrefix + status + ":")
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := prefix
		if cursor != "" {
			seekKey = statusKey(status, cursor)
		}
		it.Seek(seekKey)
		// The cursor names an already returned event; skip past it.
		if cursor != "" && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if len(events) == limit {
				break
			}
			eventID := string(it.Item().Key()[len(prefix):])
			event, err := getEvent(txn, eventID)
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Dangling index entry; skip.
				continue
			}
			if err != nil {
				return err
			}
			events = append(events, event)
		}
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list events: %w", err)
	}

	next := ""
	if len(events) == limit {
		next = events[len(events)-1].EventID
	}
	return events, next, nil
}

func getEvent(txn *badger.Txn, eventID string) (*models.Event, error) {
	item, err := txn.Get(eventKey(eventID))
	if err != nil {
		return nil, err
	}
	event := &models.Event{}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, event)
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}
