package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tripplanner/logger"
	"tripplanner/services"
)

// DownloadTripPDF renders a saved trip on demand; PDFs are not stored.
func (h *Handler) DownloadTripPDF(c *gin.Context) {
	trip, ok := h.loadTrip(c)
	if !ok {
		return
	}

	pdfBytes, err := services.RenderTripPDF(*trip)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("PDF generation failed", "trip_id", trip.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.PDFFilename(*trip)))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *Handler) Health(c *gin.Context) {
	dbStatus := "ok"
	if err := h.ping(c.Request.Context()); err != nil {
		dbStatus = "error: " + err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "Trip Planner API",
		"database": dbStatus,
	})
}

// Ready fails while the database is unreachable so load balancers stop routing here.
func (h *Handler) Ready(c *gin.Context) {
	if err := h.ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.db.PingContext(ctx)
}
