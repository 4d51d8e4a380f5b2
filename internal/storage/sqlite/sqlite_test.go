package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/eventbot/internal/models"
	"github.com/mmynk/eventbot/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("GetEvent on missing id returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetEvent(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("PutEvent stamps dates and round-trips", func(t *testing.T) {
		event := &models.Event{
			EventID:        "ts1",
			Name:           "Party",
			Description:    "roof party",
			Status:         models.StatusOpen,
			Creator:        "U1",
			Attendees:      []string{"U1", "U2"},
			ExtraAttendees: 1,
			Cost:           1250,
		}
		if err := store.PutEvent(ctx, event); err != nil {
			t.Fatalf("PutEvent failed: %v", err)
		}
		if event.CreatedDate.IsZero() || event.ModifiedDate.IsZero() {
			t.Fatal("PutEvent did not stamp dates")
		}

		got, err := store.GetEvent(ctx, "ts1")
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Name != "Party" || got.Cost != 1250 || got.Creator != "U1" {
			t.Errorf("got %+v", got)
		}
		if len(got.Attendees) != 2 || got.Attendees[0] != "U1" || got.Attendees[1] != "U2" {
			t.Errorf("attendees = %v, want [U1 U2]", got.Attendees)
		}
		if !got.CreatedDate.Equal(event.CreatedDate) {
			t.Errorf("created_date = %v, want %v", got.CreatedDate, event.CreatedDate)
		}
	})

	t.Run("second PutEvent keeps created_date", func(t *testing.T) {
		event, err := store.GetEvent(ctx, "ts1")
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		created := event.CreatedDate

		event.Name = "Bigger Party"
		if err := store.PutEvent(ctx, event); err != nil {
			t.Fatalf("PutEvent failed: %v", err)
		}

		got, err := store.GetEvent(ctx, "ts1")
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Name != "Bigger Party" {
			t.Errorf("name = %q, want Bigger Party", got.Name)
		}
		if !got.CreatedDate.Equal(created) {
			t.Errorf("created_date changed on update: %v -> %v", created, got.CreatedDate)
		}
		if got.ModifiedDate.Before(created) {
			t.Errorf("modified_date %v before created_date %v", got.ModifiedDate, created)
		}
	})

	t.Run("ListEvents pages by status", func(t *testing.T) {
		for _, id := range []string{"ts2", "ts3", "ts4"} {
			event := &models.Event{EventID: id, Name: "E " + id, Status: models.StatusOpen, Creator: "U1"}
			if err := store.PutEvent(ctx, event); err != nil {
				t.Fatalf("PutEvent failed: %v", err)
			}
		}

		page1, cursor, err := store.ListEvents(ctx, models.StatusOpen, "", 2)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(page1) != 2 || cursor == "" {
			t.Fatalf("page1 = %d events, cursor = %q", len(page1), cursor)
		}

		page2, cursor2, err := store.ListEvents(ctx, models.StatusOpen, cursor, 2)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		// ts1..ts4 are open: 2 on the second page.
		if len(page2) != 2 {
			t.Errorf("page2 = %d events, want 2", len(page2))
		}
		if page2[0].EventID <= cursor {
			t.Errorf("page2 starts at %q, not after cursor %q", page2[0].EventID, cursor)
		}

		page3, cursor3, err := store.ListEvents(ctx, models.StatusOpen, cursor2, 2)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(page3) != 0 || cursor3 != "" {
			t.Errorf("page3 = %d events, cursor = %q, want empty", len(page3), cursor3)
		}

		none, _, err := store.ListEvents(ctx, "archived", "", 10)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("archived events = %d, want 0", len(none))
		}
	})
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("GetUser on missing id returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUser(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("PutUser upserts", func(t *testing.T) {
		user := &models.User{UserID: "U1", VenmoHandle: "@alice"}
		if err := store.PutUser(ctx, user); err != nil {
			t.Fatalf("PutUser failed: %v", err)
		}

		user.VenmoHandle = "@alice2"
		if err := store.PutUser(ctx, user); err != nil {
			t.Fatalf("PutUser failed: %v", err)
		}

		got, err := store.GetUser(ctx, "U1")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.VenmoHandle != "@alice2" {
			t.Errorf("venmo_handle = %q, want @alice2", got.VenmoHandle)
		}
	})

	t.Run("BatchGetUsers omits missing ids", func(t *testing.T) {
		if err := store.PutUser(ctx, &models.User{UserID: "U2"}); err != nil {
			t.Fatalf("PutUser failed: %v", err)
		}

		users, err := store.BatchGetUsers(ctx, []string{"U1", "U2", "U404"})
		if err != nil {
			t.Fatalf("BatchGetUsers failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("users = %d, want 2 (missing id omitted)", len(users))
		}
	})

	t.Run("ListUsers pages through all users", func(t *testing.T) {
		users, cursor, err := store.ListUsers(ctx, "", 1)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 1 || cursor == "" {
			t.Fatalf("page1 = %d users, cursor = %q", len(users), cursor)
		}
		rest, _, err := store.ListUsers(ctx, cursor, 10)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(rest) != 1 {
			t.Errorf("page2 = %d users, want 1", len(rest))
		}
	})
}
