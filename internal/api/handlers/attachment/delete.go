package attachment

import (
	"net/http"

	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
	"github.com/gin-gonic/gin"
)

// Delete removes an attachment's stored object and its metadata row in one
// server-side operation. The driver treats object removal as best-effort;
// only a failed row delete is reported as an error.
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "attachment id is required"})
		return
	}

	record, exists := services.GetAttachment(id)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
		return
	}
	if record.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	if err := h.Uploader.Delete(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete attachment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "attachment deleted",
		"attachment_id": id,
	})
}
