package badgerstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/eventbot/internal/models"
	"github.com/mmynk/eventbot/internal/storage"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEventRoundTrip(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetEvent(ctx, "missing")
	req.ErrorIs(err, storage.ErrNotFound)

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
	req.NoError(store.PutEvent(ctx, event))
	req.False(event.CreatedDate.IsZero())

	got, err := store.GetEvent(ctx, "ts1")
	req.NoError(err)
	req.Equal("Party", got.Name)
	req.Equal(int64(1250), got.Cost)
	req.Equal([]string{"U1", "U2"}, got.Attendees)
	req.True(got.CreatedDate.Equal(event.CreatedDate))

	// Second put keeps created_date.
	got.Name = "Bigger Party"
	req.NoError(store.PutEvent(ctx, got))
	again, err := store.GetEvent(ctx, "ts1")
	req.NoError(err)
	req.Equal("Bigger Party", again.Name)
	req.True(again.CreatedDate.Equal(event.CreatedDate))
}

func TestListEventsByStatus(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"ts1", "ts2", "ts3"} {
		req.NoError(store.PutEvent(ctx, &models.Event{
			EventID: id,
			Name:    "E " + id,
			Status:  models.StatusOpen,
			Creator: "U1",
		}))
	}

	page1, cursor, err := store.ListEvents(ctx, models.StatusOpen, "", 2)
	req.NoError(err)
	req.Len(page1, 2)
	req.Equal("ts2", cursor)

	page2, _, err := store.ListEvents(ctx, models.StatusOpen, cursor, 2)
	req.NoError(err)
	req.Len(page2, 1)
	req.Equal("ts3", page2[0].EventID)

	none, _, err := store.ListEvents(ctx, "archived", "", 10)
	req.NoError(err)
	req.Empty(none)
}

func TestStatusIndexFollowsStatusChange(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	ctx := context.Background()

	event := &models.Event{EventID: "ts1", Name: "Party", Status: models.StatusOpen, Creator: "U1"}
	req.NoError(store.PutEvent(ctx, event))

	event.Status = "archived"
	req.NoError(store.PutEvent(ctx, event))

	open, _, err := store.ListEvents(ctx, models.StatusOpen, "", 10)
	req.NoError(err)
	req.Empty(open)

	archived, _, err := store.ListEvents(ctx, "archived", "", 10)
	req.NoError(err)
	req.Len(archived, 1)
}

func TestUsers(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetUser(ctx, "missing")
	req.ErrorIs(err, storage.ErrNotFound)

	req.NoError(store.PutUser(ctx, &models.User{UserID: "U1", VenmoHandle: "@alice"}))
	req.NoError(store.PutUser(ctx, &models.User{UserID: "U2"}))

	got, err := store.GetUser(ctx, "U1")
	req.NoError(err)
	req.Equal("@alice", got.VenmoHandle)

	users, err := store.BatchGetUsers(ctx, []string{"U1", "U2", "U404"})
	req.NoError(err)
	req.Len(users, 2)

	page1, cursor, err := store.ListUsers(ctx, "", 1)
	req.NoError(err)
	req.Len(page1, 1)
	req.Equal("U1", cursor)

	page2, _, err := store.ListUsers(ctx, cursor, 10)
	req.NoError(err)
	req.Len(page2, 1)
	req.Equal("U2", page2[0].UserID)
}
