package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TripStore persists SavedTrips. Every read and delete is scoped to the owning user.
type TripStore struct {
	db *sqlx.DB
}

func NewTripStore(db *sqlx.DB) *TripStore {
	return &TripStore{db: db}
}

const tripColumns = `id, user_id, destination, place_id, start_date, end_date, companions,
	activities, trip_html, origin_location, transportation_mode, created_at`

// Create inserts trip in a single statement. A zero ID is replaced with a new UUID;
// CreatedAt is set from the database clock.
func (s *TripStore) Create(ctx context.Context, trip *SavedTrip) error {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}

	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO saved_trips (id, user_id, destination, place_id, start_date, end_date,
			companions, activities, trip_html, origin_location, transportation_mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`,
		trip.ID, trip.UserID, trip.Destination, trip.PlaceID, trip.StartDate, trip.EndDate,
		trip.Companions, trip.Activities, trip.TripHTML, trip.OriginLocation, trip.TransportationMode,
	).Scan(&trip.CreatedAt)
	if err != nil {
		return fmt.Errorf("database.TripStore.Create: %w", err)
	}
	return nil
}

// ListByUser returns the user's trips, newest first.
func (s *TripStore) ListByUser(ctx context.Context, userID string) ([]SavedTrip, error) {
	trips := []SavedTrip{}
	err := s.db.SelectContext(ctx, &trips, `
		SELECT `+tripColumns+`
		FROM saved_trips WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("database.TripStore.ListByUser: %w", err)
	}
	return trips, nil
}

// GetForUser returns ErrNotFound when the trip is missing or owned by someone else.
func (s *TripStore) GetForUser(ctx context.Context, userID string, id uuid.UUID) (*SavedTrip, error) {
	var trip SavedTrip
	err := s.db.GetContext(ctx, &trip, `
		SELECT `+tripColumns+`
		FROM saved_trips WHERE id = $1 AND user_id = $2`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database.TripStore.GetForUser: %w", err)
	}
	return &trip, nil
}

func (s *TripStore) DeleteForUser(ctx context.Context, userID string, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_trips WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("database.TripStore.DeleteForUser: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("database.TripStore.DeleteForUser: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
