package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripplanner/database"
	"tripplanner/logger"
	"tripplanner/middleware"
)

type TripSummary struct {
	ID                 string    `json:"id"`
	Destination        string    `json:"destination"`
	PlaceID            string    `json:"place_id"`
	StartDate          string    `json:"start_date"`
	EndDate            string    `json:"end_date"`
	Companions         string    `json:"companions"`
	Activities         []string  `json:"activities"`
	OriginLocation     *string   `json:"origin_location"`
	TransportationMode *string   `json:"transportation_mode"`
	CreatedAt          time.Time `json:"created_at"`
}

type TripDetail struct {
	TripSummary
	TripHTML string `json:"trip_html"`
}

func summarize(t database.SavedTrip) TripSummary {
	return TripSummary{
		ID:                 t.ID.String(),
		Destination:        t.Destination,
		PlaceID:            t.PlaceID,
		StartDate:          t.StartDate.Format(time.DateOnly),
		EndDate:            t.EndDate.Format(time.DateOnly),
		Companions:         t.Companions,
		Activities:         []string(t.Activities),
		OriginLocation:     t.OriginLocation,
		TransportationMode: t.TransportationMode,
		CreatedAt:          t.CreatedAt,
	}
}

func (h *Handler) ListTrips(c *gin.Context) {
	trips, err := h.trips.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("list trips failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trips"})
		return
	}

	out := make([]TripSummary, 0, len(trips))
	for _, t := range trips {
		out = append(out, summarize(t))
	}
	c.JSON(http.StatusOK, gin.H{"trips": out})
}

func (h *Handler) GetTrip(c *gin.Context) {
	trip, ok := h.loadTrip(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, TripDetail{TripSummary: summarize(*trip), TripHTML: trip.TripHTML})
}

func (h *Handler) DeleteTrip(c *gin.Context) {
	id, ok := tripID(c)
	if !ok {
		return
	}

	err := h.trips.DeleteForUser(c.Request.Context(), middleware.UserID(c), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("delete trip failed", "trip_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trip"})
		return
	}
	c.Status(http.StatusNoContent)
}

// loadTrip writes the error response itself and reports whether the caller should continue.
func (h *Handler) loadTrip(c *gin.Context) (*database.SavedTrip, bool) {
	id, ok := tripID(c)
	if !ok {
		return nil, false
	}

	trip, err := h.trips.GetForUser(c.Request.Context(), middleware.UserID(c), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return nil, false
	}
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("load trip failed", "trip_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trip"})
		return nil, false
	}
	return trip, true
}

func tripID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return uuid.Nil, false
	}
	return id, true
}
