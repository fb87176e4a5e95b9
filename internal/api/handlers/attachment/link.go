package attachment

import (
	"net/http"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	"github.com/TripDesk-Travel/Attachment-Service/internal/staging"
	"github.com/gin-gonic/gin"
)

type linkRequest struct {
	URL      string `json:"url" binding:"required"`
	Category string `json:"category"`
	Note     string `json:"note"`
}

// CreateLink inserts a link attachment directly for an existing trip.
// Links carry no stored object: file_type is "link" and file_size is 0.
func (h *Handler) CreateLink(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	tripID := c.Param("tripId")
	if tripID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trip id is required"})
		return
	}

	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	if err := staging.ValidateLink(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Category == "" {
		req.Category = "other"
	}

	a, err := h.Uploader.InsertLink(models.PendingLink{
		URL:      req.URL,
		Category: req.Category,
		Note:     req.Note,
	}, userID, tripID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attachment": a})
}
