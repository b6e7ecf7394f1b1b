package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lib/pq"

	"tripplanner/database"
	"tripplanner/logger"
	"tripplanner/metrics"
)

// TripRequest is the payload of a generation request.
type TripRequest struct {
	Destination        string   `json:"destination"`
	PlaceID            string   `json:"place_id"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	Companions         string   `json:"companions"`
	Activities         []string `json:"activities"`
	OriginLocation     string   `json:"origin_location"`
	TransportationMode string   `json:"transportation_mode"`
}

// Itinerary is a successful generation.
type Itinerary struct {
	Content string
	// GenerationTime is the wall-clock wait for the backend in seconds, rounded to 2 decimals.
	GenerationTime float64
}

// TripSaver persists generated trips.
type TripSaver interface {
	Create(ctx context.Context, trip *database.SavedTrip) error
}

// ItineraryService validates a TripRequest, generates the itinerary and saves it for
// authenticated users.
type ItineraryService struct {
	generator Generator
	trips     TripSaver
}

func NewItineraryService(generator Generator, trips TripSaver) *ItineraryService {
	return &ItineraryService{generator: generator, trips: trips}
}

// Generate runs one generation. userID is empty for anonymous callers, who get the
// itinerary but nothing is stored. Errors wrap ErrValidation, or are a *GenerationError,
// or come from the store.
func (s *ItineraryService) Generate(ctx context.Context, req TripRequest, userID string) (*Itinerary, error) {
	req = normalize(req)
	start, end, err := validate(req)
	if err != nil {
		return nil, err
	}

	plan := TripPlan{
		Destination:        req.Destination,
		StartDate:          start,
		Duration:           TripDuration(start, end),
		Companions:         CompanionPhrases.Phrase(req.Companions),
		Activities:         ActivityPhrases.Phrases(req.Activities),
		OriginLocation:     req.OriginLocation,
		TransportationMode: req.TransportationMode,
	}

	log := logger.FromContext(ctx)
	log.Info("generating itinerary", "destination", plan.Destination, "duration", plan.Duration)

	began := time.Now()
	content, err := s.generator.Generate(ctx, BuildPrompt(plan))
	elapsed := time.Since(began)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		trip := &database.SavedTrip{
			UserID:             userID,
			Destination:        plan.Destination,
			PlaceID:            req.PlaceID,
			StartDate:          start,
			EndDate:            end,
			Companions:         req.Companions,
			Activities:         pq.StringArray(req.Activities),
			TripHTML:           content,
			OriginLocation:     optional(plan.OriginLocation),
			TransportationMode: optional(plan.TransportationMode),
		}
		if err := s.trips.Create(ctx, trip); err != nil {
			return nil, fmt.Errorf("save trip: %w", err)
		}
		metrics.TripsSavedTotal.Inc()
		log.Info("trip saved", "trip_id", trip.ID)
	}

	return &Itinerary{
		Content:        content,
		GenerationTime: math.Round(elapsed.Seconds()*100) / 100,
	}, nil
}

// normalize trims every text field and drops blank activities.
func normalize(req TripRequest) TripRequest {
	req.Destination = strings.TrimSpace(req.Destination)
	req.PlaceID = strings.TrimSpace(req.PlaceID)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)
	req.Companions = strings.TrimSpace(req.Companions)
	req.OriginLocation = strings.TrimSpace(req.OriginLocation)
	req.TransportationMode = strings.TrimSpace(req.TransportationMode)

	var activities []string
	for _, a := range req.Activities {
		if a = strings.TrimSpace(a); a != "" {
			activities = append(activities, a)
		}
	}
	req.Activities = activities
	return req
}

// validate expects a normalized request.
func validate(req TripRequest) (start, end time.Time, err error) {
	if req.Destination == "" || req.StartDate == "" || req.EndDate == "" ||
		req.Companions == "" || len(req.Activities) == 0 {
		return start, end, ErrMissingFields
	}

	start, err = time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return start, end, fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrInvalidDates)
	}
	end, err = time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return start, end, fmt.Errorf("%w: end_date must be YYYY-MM-DD", ErrInvalidDates)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("%w: end_date is before start_date", ErrInvalidDates)
	}
	return start, end, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
