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

// PutUser persists a user, stamping its created/modified dates.
func (s *BadgerStore) PutUser(_ context.Context, user *models.User) error {
	user.Touch(time.Now().UTC())

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user %s: %w", user.UserID, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.UserID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to put user %s: %w", user.UserID, err)
	}
	return nil
}

// GetUser retrieves a user by id. Returns storage.ErrNotFound if absent.
func (s *BadgerStore) GetUser(_ context.Context, userID string) (*models.User, error) {
	var user *models.User
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, userID)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

// BatchGetUsers retrieves the users that exist among ids. Missing ids are
// omitted.
func (s *BadgerStore) BatchGetUsers(_ context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []*models.User
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			user, err := getUser(txn, id)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to batch get users: %w", err)
	}
	return users, nil
}

// ListUsers pages through all users via a prefix scan. The cursor is the
// last user_id of the previous page.
func (s *BadgerStore) ListUsers(_ context.Context, cursor string, limit int) ([]*models.User, string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var users []*models.User
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(userPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seekKey := prefix
		if cursor != "" {
			seekKey = userKey(cursor)
		}
		it.Seek(seekKey)
		if cursor != "" && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if len(users) == limit {
				break
			}
			user := &models.User{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, user)
			})
			if err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list users: %w", err)
	}

	next := ""
	if len(users) == limit {
		next = users[len(users)-1].UserID
	}
	return users, next, nil
}

func getUser(txn *badger.Txn, userID string) (*models.User, error) {
	item, err := txn.Get(userKey(userID))
	if err != nil {
		return nil, err
	}
	user := &models.User{}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
