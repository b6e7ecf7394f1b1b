package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ─── Models ──────────────────────────────────────────────────────────────────

// SavedTrip is a generated itinerary kept for the user who requested it. Rows are never updated.
type SavedTrip struct {
	ID                 uuid.UUID      `db:"id"`
	UserID             string         `db:"user_id"`
	Destination        string         `db:"destination"`
	PlaceID            string         `db:"place_id"`
	StartDate          time.Time      `db:"start_date"`
	EndDate            time.Time      `db:"end_date"`
	Companions         string         `db:"companions"`
	Activities         pq.StringArray `db:"activities"`
	TripHTML           string         `db:"trip_html"`
	OriginLocation     *string        `db:"origin_location"`
	TransportationMode *string        `db:"transportation_mode"`
	CreatedAt          time.Time      `db:"created_at"`
}

type Place struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Latitude    float64 `db:"latitude" json:"latitude"`
	Longitude   float64 `db:"longitude" json:"longitude"`
	ImageURL    string  `db:"image_url" json:"image_url"`
}

type Hotel struct {
	ID          int64   `db:"id" json:"id"`
	PlaceID     int64   `db:"place_id" json:"place_id"`
	Name        string  `db:"name" json:"name"`
	Location    string  `db:"location" json:"location"`
	Latitude    float64 `db:"latitude" json:"latitude"`
	Longitude   float64 `db:"longitude" json:"longitude"`
	ImageURL    string  `db:"image_url" json:"image_url"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
}
