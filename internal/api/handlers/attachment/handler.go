package attachment

import (
	"github.com/TripDesk-Travel/Attachment-Service/internal/staging"
	"github.com/TripDesk-Travel/Attachment-Service/internal/uploader"
	"github.com/gin-gonic/gin"
)

// Handler carries the staging area, progress tracker, and upload driver
// into the attachment endpoints.
type Handler struct {
	Staging  *staging.Area
	Tracker  *uploader.Tracker
	Uploader *uploader.Driver
}

func NewHandler(area *staging.Area, tracker *uploader.Tracker, driver *uploader.Driver) *Handler {
	return &Handler{Staging: area, Tracker: tracker, Uploader: driver}
}

func userIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok && userID != ""
}
