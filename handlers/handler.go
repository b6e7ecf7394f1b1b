// Package handlers exposes the HTTP API.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tripplanner/database"
	"tripplanner/middleware"
	"tripplanner/services"
)

// ItineraryGenerator runs one trip generation for the caller (userID "" when anonymous).
type ItineraryGenerator interface {
	Generate(ctx context.Context, req services.TripRequest, userID string) (*services.Itinerary, error)
}

// TripReader is the owner-scoped view of saved trips.
type TripReader interface {
	ListByUser(ctx context.Context, userID string) ([]database.SavedTrip, error)
	GetForUser(ctx context.Context, userID string, id uuid.UUID) (*database.SavedTrip, error)
	DeleteForUser(ctx context.Context, userID string, id uuid.UUID) error
}

// Pinger reports whether the database answers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	itineraries ItineraryGenerator
	trips       TripReader
	places      services.PlaceReader
	db          Pinger
}

func New(itineraries ItineraryGenerator, trips TripReader, places services.PlaceReader, db Pinger) *Handler {
	return &Handler{itineraries: itineraries, trips: trips, places: places, db: db}
}

// RouterConfig carries the middleware settings NewRouter needs.
type RouterConfig struct {
	CORSOrigins []string
	JWTSecret   string
	ServiceName string
	// Limiter throttles trip generation; nil disables it.
	Limiter              middleware.RateLimiter
	GenerationsPerMinute int
}

func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Trace(cfg.ServiceName),
		middleware.TraceID(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.Identity(cfg.JWTSecret),
	)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/ready", h.Ready)

		api.POST("/generate-trip",
			middleware.RateLimit(cfg.Limiter, cfg.GenerationsPerMinute, time.Minute),
			h.GenerateTrip)

		api.GET("/places", h.ListPlaces)
		api.GET("/places/:id", h.GetPlace)
		api.GET("/places/:id/hotels", h.ListHotels)
		api.GET("/hotels/:id", h.GetHotel)

		trips := api.Group("/trips", middleware.RequireUser())
		{
			trips.GET("", h.ListTrips)
			trips.GET("/:id", h.GetTrip)
			trips.DELETE("/:id", h.DeleteTrip)
			trips.GET("/:id/pdf", h.DownloadTripPDF)
		}
	}

	return r
}
