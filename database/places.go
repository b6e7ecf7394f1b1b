package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PlaceStore reads the place and hotel catalogue. Rows are maintained outside this service.
type PlaceStore struct {
	db *sqlx.DB
}

func NewPlaceStore(db *sqlx.DB) *PlaceStore {
	return &PlaceStore{db: db}
}

func (s *PlaceStore) ListPlaces(ctx context.Context) ([]Place, error) {
	places := []Place{}
	err := s.db.SelectContext(ctx, &places,
		`SELECT id, name, description, latitude, longitude, image_url FROM places ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("database.PlaceStore.ListPlaces: %w", err)
	}
	return places, nil
}

func (s *PlaceStore) GetPlace(ctx context.Context, id int64) (*Place, error) {
	var p Place
	err := s.db.GetContext(ctx, &p,
		`SELECT id, name, description, latitude, longitude, image_url FROM places WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database.PlaceStore.GetPlace: %w", err)
	}
	return &p, nil
}

const hotelColumns = `id, place_id, name, location, latitude, longitude, image_url, description, price`

// ListHotels returns the hotels attached to a place, cheapest first.
func (s *PlaceStore) ListHotels(ctx context.Context, placeID int64) ([]Hotel, error) {
	hotels := []Hotel{}
	err := s.db.SelectContext(ctx, &hotels,
		`SELECT `+hotelColumns+` FROM hotels WHERE place_id = $1 ORDER BY price, name`, placeID)
	if err != nil {
		return nil, fmt.Errorf("database.PlaceStore.ListHotels: %w", err)
	}
	return hotels, nil
}

func (s *PlaceStore) GetHotel(ctx context.Context, id int64) (*Hotel, error) {
	var h Hotel
	err := s.db.GetContext(ctx, &h, `SELECT `+hotelColumns+` FROM hotels WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database.PlaceStore.GetHotel: %w", err)
	}
	return &h, nil
}
