package attachment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// StageFiles holds validated files in memory for a session that has no trip
// id yet, e.g. while the user is still filling in a draft request. Staged
// items do not survive a restart.
func (h *Handler) StageFiles(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	sessionID := c.Param("session")
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse multipart form: " + err.Error()})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	category := c.PostForm("category")
	if category == "" {
		category = "other"
	}

	incoming, warnings := readUploads(files)
	accepted, moreWarnings := h.Staging.AddFiles(sessionID, incoming, category)
	warnings = append(warnings, moreWarnings...)

	c.JSON(http.StatusOK, gin.H{
		"staged":   len(accepted),
		"warnings": warnings,
	})
}

// StageLink holds a link in memory until a trip id exists.
func (h *Handler) StageLink(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	if req.Category == "" {
		req.Category = "other"
	}

	if err := h.Staging.AddLink(c.Param("session"), req.URL, req.Category, req.Note); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "link staged"})
}

// UnstageFile removes a staged file by index, only possible pre-upload.
func (h *Handler) UnstageFile(c *gin.Context) {
	h.unstage(c, h.Staging.RemoveFile)
}

// UnstageLink removes a staged link by index.
func (h *Handler) UnstageLink(c *gin.Context) {
	h.unstage(c, h.Staging.RemoveLink)
}

func (h *Handler) unstage(c *gin.Context, remove func(string, int) error) {
	if _, ok := userIDFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	if err := remove(c.Param("session"), index); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

// StagingSnapshot lists what is currently pending for the session.
func (h *Handler) StagingSnapshot(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	files, links := h.Staging.Snapshot(c.Param("session"))
	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"links": links,
	})
}

// UploadAll drains the session's staging area into a now-existing trip,
// files then links, strictly sequentially. Partial failures are reported
// per item and do not abort the batch; the staging list is cleared once
// every item has been attempted.
func (h *Handler) UploadAll(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	tripID := c.Query("trip_id")
	if tripID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trip_id is required"})
		return
	}

	results, succeeded := h.Uploader.UploadAll(c.Request.Context(), h.Staging, h.Tracker, c.Param("session"), userID, tripID)
	c.JSON(http.StatusOK, gin.H{
		"results":   results,
		"succeeded": succeeded,
	})
}
