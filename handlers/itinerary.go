package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripplanner/logger"
	"tripplanner/middleware"
	"tripplanner/services"
)

type GenerateTripResponse struct {
	Success        bool     `json:"success"`
	Content        string   `json:"content,omitempty"`
	GenerationTime *float64 `json:"generation_time,omitempty"`
	Error          string   `json:"error,omitempty"`
}

func (h *Handler) GenerateTrip(c *gin.Context) {
	var req services.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenerateTripResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	itinerary, err := h.itineraries.Generate(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		status, msg := generationFailure(err)
		if status >= http.StatusInternalServerError {
			logger.FromContext(c.Request.Context()).Error("trip generation failed",
				"status", status, "error", err)
		}
		c.JSON(status, GenerateTripResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, GenerateTripResponse{
		Success:        true,
		Content:        itinerary.Content,
		GenerationTime: &itinerary.GenerationTime,
	})
}

// generationFailure maps an ItineraryGenerator error to a status and user-facing message.
func generationFailure(err error) (int, string) {
	var ge *services.GenerationError
	switch {
	case errors.Is(err, services.ErrMissingFields):
		return http.StatusBadRequest, "Missing required fields"
	case errors.Is(err, services.ErrInvalidDates):
		return http.StatusBadRequest, "Invalid dates: use YYYY-MM-DD and an end date on or after the start date"
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrTimeout):
		return http.StatusGatewayTimeout, "The AI service took too long to respond. Please try again."
	case errors.As(err, &ge) && ge.Kind == services.KindTooShort:
		return http.StatusBadGateway, "Generated content is too short or empty"
	case errors.Is(err, services.ErrUpstream):
		return http.StatusBadGateway, "Error generating trip: " + err.Error()
	default:
		return http.StatusInternalServerError, "Failed to save the generated trip. Please try again."
	}
}
