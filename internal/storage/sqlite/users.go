package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/eventbot/internal/models"
	"github.com/mmynk/eventbot/internal/storage"
)

// PutUser persists a user, stamping its created/modified dates.
func (s *SQLiteStore) PutUser(ctx context.Context, user *models.User) error {
	user.Touch(time.Now().UTC())

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, venmo_handle, created_date, modified_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			venmo_handle = excluded.venmo_handle,
			modified_date = excluded.modified_date
	`, s.users)

	_, err := s.db.ExecContext(ctx, query,
		user.UserID,
		user.VenmoHandle,
		user.CreatedDate.UnixMilli(),
		user.ModifiedDate.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to put user %s: %w", user.UserID, err)
	}

	return nil
}

// GetUser retrieves a user by id. Returns storage.ErrNotFound if absent.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT user_id, venmo_handle, created_date, modified_date
		FROM %s
		WHERE user_id = ?
	`, s.users)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

// BatchGetUsers retrieves the users that exist among ids. Missing ids are
// omitted; order follows the query, not the input.
func (s *SQLiteStore) BatchGetUsers(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	query := fmt.Sprintf(`
		SELECT user_id, venmo_handle, created_date, modified_date
		FROM %s
		WHERE user_id IN (%s)
	`, s.users, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to batch get users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// ListUsers pages through all users. The cursor is the last user_id of the
// previous page.
func (s *SQLiteStore) ListUsers(ctx context.Context, cursor string, limit int) ([]*models.User, string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := fmt.Sprintf(`
		SELECT user_id, venmo_handle, created_date, modified_date
		FROM %s
		WHERE user_id > ?
		ORDER BY user_id
		LIMIT ?
	`, s.users)

	rows, err := s.db.QueryContext(ctx, query, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to iterate users: %w", err)
	}

	next := ""
	if len(users) == limit {
		next = users[len(users)-1].UserID
	}
	return users, next, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var created, modified int64
	err := row.Scan(
		&user.UserID,
		&user.VenmoHandle,
		&created,
		&modified,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedDate = time.UnixMilli(created).UTC()
	user.ModifiedDate = time.UnixMilli(modified).UTC()
	return user, nil
}
