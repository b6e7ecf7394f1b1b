package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripplanner/database"
	"tripplanner/logger"
)

func (h *Handler) ListPlaces(c *gin.Context) {
	places, err := h.places.ListPlaces(c.Request.Context())
	if err != nil {
		h.catalogueError(c, err, "places")
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

func (h *Handler) GetPlace(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	place, err := h.places.GetPlace(c.Request.Context(), id)
	if err != nil {
		h.catalogueError(c, err, "place")
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *Handler) ListHotels(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if _, err := h.places.GetPlace(c.Request.Context(), id); err != nil {
		h.catalogueError(c, err, "place")
		return
	}
	hotels, err := h.places.ListHotels(c.Request.Context(), id)
	if err != nil {
		h.catalogueError(c, err, "hotels")
		return
	}
	c.JSON(http.StatusOK, gin.H{"hotels": hotels})
}

func (h *Handler) GetHotel(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	hotel, err := h.places.GetHotel(c.Request.Context(), id)
	if err != nil {
		h.catalogueError(c, err, "hotel")
		return
	}
	c.JSON(http.StatusOK, hotel)
}

func (h *Handler) catalogueError(c *gin.Context, err error, what string) {
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	logger.FromContext(c.Request.Context()).Error("catalogue lookup failed", "what", what, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load " + what})
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
