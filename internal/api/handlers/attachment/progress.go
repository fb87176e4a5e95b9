package attachment

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Progress reports the one-at-a-time upload progress, if a transfer is in
// flight. The state is gone once the upload completes or errors.
func (h *Handler) Progress(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	p, active := h.Tracker.Current()
	if !active {
		c.JSON(http.StatusOK, gin.H{"uploading": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"uploading": true,
		"progress":  p,
	})
}
