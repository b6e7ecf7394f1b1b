package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/database"
)

func newTrip(userID, destination string) *database.SavedTrip {
	origin := "Lyon"
	return &database.SavedTrip{
		UserID:         userID,
		Destination:    destination,
		PlaceID:        "7",
		StartDate:      time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
		Companions:     "friends",
		Activities:     pq.StringArray{"food", "culture"},
		TripHTML:       "<h1>Trip</h1>",
		OriginLocation: &origin,
	}
}

func TestTripStore_CreateAndGet(t *testing.T) {
	store := database.NewTripStore(openTestDB(t))
	ctx := context.Background()
	user := "user-" + uuid.NewString()

	trip := newTrip(user, "Paris")
	require.NoError(t, store.Create(ctx, trip))
	require.NotEqual(t, uuid.Nil, trip.ID)
	require.False(t, trip.CreatedAt.IsZero())

	got, err := store.GetForUser(ctx, user, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.Destination)
	assert.Equal(t, []string{"food", "culture"}, []string(got.Activities))
	assert.Equal(t, "<h1>Trip</h1>", got.TripHTML)
	require.NotNil(t, got.OriginLocation)
	assert.Equal(t, "Lyon", *got.OriginLocation)
	assert.Nil(t, got.TransportationMode)
}

func TestTripStore_scopedToOwner(t *testing.T) {
	store := database.NewTripStore(openTestDB(t))
	ctx := context.Background()
	owner := "user-" + uuid.NewString()
	other := "user-" + uuid.NewString()

	trip := newTrip(owner, "Rome")
	require.NoError(t, store.Create(ctx, trip))

	_, err := store.GetForUser(ctx, other, trip.ID)
	require.ErrorIs(t, err, database.ErrNotFound)

	require.ErrorIs(t, store.DeleteForUser(ctx, other, trip.ID), database.ErrNotFound)

	list, err := store.ListByUser(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.DeleteForUser(ctx, owner, trip.ID))
	_, err = store.GetForUser(ctx, owner, trip.ID)
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestTripStore_ListByUser_newestFirst(t *testing.T) {
	store := database.NewTripStore(openTestDB(t))
	ctx := context.Background()
	user := "user-" + uuid.NewString()

	first := newTrip(user, "Oslo")
	require.NoError(t, store.Create(ctx, first))
	time.Sleep(10 * time.Millisecond)
	second := newTrip(user, "Bergen")
	require.NoError(t, store.Create(ctx, second))

	list, err := store.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
