package attachment

import (
	"net/http"

	"github.com/TripDesk-Travel/Attachment-Service/internal/resolve"
	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
	"github.com/gin-gonic/gin"
)

// List returns a trip's attachments, newest first, each annotated with a
// 24-hour display URL. Resolution failures fall back to the stored
// reference and are never surfaced as errors.
func (h *Handler) List(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	tripID := c.Param("tripId")
	if tripID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trip id is required"})
		return
	}

	records, err := services.GetTripAttachments(tripID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attachments"})
		return
	}

	minioService := services.GetMinioService()
	if minioService == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not available"})
		return
	}

	resolved := resolve.ForDisplay(c.Request.Context(), minioService, records)
	c.JSON(http.StatusOK, gin.H{
		"attachments": resolved,
		"total":       len(resolved),
	})
}
