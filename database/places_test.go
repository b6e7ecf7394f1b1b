package database_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/database"
)

func TestPlaceStore_hotelsBelongToPlace(t *testing.T) {
	db := openTestDB(t)
	store := database.NewPlaceStore(db)
	ctx := context.Background()

	var placeID int64
	require.NoError(t, db.GetContext(ctx, &placeID,
		`INSERT INTO places (name, latitude, longitude) VALUES ($1, 48.85, 2.35) RETURNING id`,
		"Paris "+uuid.NewString()))
	t.Cleanup(func() { db.Exec(`DELETE FROM places WHERE id = $1`, placeID) })

	_, err := db.ExecContext(ctx, `
		INSERT INTO hotels (place_id, name, latitude, longitude, price)
		VALUES ($1, 'Dear', 48.86, 2.34, 210.50), ($1, 'Budget', 48.87, 2.36, 80)`, placeID)
	require.NoError(t, err)

	place, err := store.GetPlace(ctx, placeID)
	require.NoError(t, err)
	assert.InDelta(t, 48.85, place.Latitude, 0.0001)

	hotels, err := store.ListHotels(ctx, placeID)
	require.NoError(t, err)
	require.Len(t, hotels, 2)
	assert.Equal(t, "Budget", hotels[0].Name)
	assert.Equal(t, "No description available.", hotels[0].Description)
	assert.InDelta(t, 210.50, hotels[1].Price, 0.001)

	got, err := store.GetHotel(ctx, hotels[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Dear", got.Name)

	_, err = store.GetPlace(ctx, -1)
	require.ErrorIs(t, err, database.ErrNotFound)
}
