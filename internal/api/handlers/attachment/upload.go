package attachment

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	"github.com/TripDesk-Travel/Attachment-Service/internal/staging"
	"github.com/TripDesk-Travel/Attachment-Service/internal/uploader"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Upload receives one or more files for a trip that already exists and
// uploads them immediately, one at a time, in selection order. Files that
// fail validation are reported per file and skipped; an upload failure stops
// only that file.
func (h *Handler) Upload(c *gin.Context) {
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

	form, err := c.MultipartForm()
	if err != nil {
		// fallback: maybe a single file
		if f, ferr := c.FormFile("file"); ferr == nil && f != nil {
			form = &multipart.Form{
				File: map[string][]*multipart.FileHeader{
					"file": {f},
				},
			}
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse multipart form: " + err.Error()})
			return
		}
	}

	var files []*multipart.FileHeader
	if fs, found := form.File["files"]; found && len(fs) > 0 {
		files = fs
	}
	if len(files) == 0 {
		if f, found := form.File["file"]; found && len(f) > 0 {
			files = f
		}
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
	accepted, moreWarnings := staging.Prepare(incoming, category)
	warnings = append(warnings, moreWarnings...)

	results := make([]uploader.Result, 0, len(accepted))
	succeeded := 0
	for i, item := range accepted {
		h.Tracker.Set(models.Progress{FileName: item.Name, Percent: 0, Index: i + 1, Total: len(accepted)})
		a, err := h.Uploader.UploadOne(c.Request.Context(), item, userID, tripID, h.Tracker.Update)
		if err != nil {
			log.Errorf("[UPLOAD] %s failed: %v", item.Name, err)
			results = append(results, uploader.Result{Success: false, Error: err.Error()})
			continue
		}
		succeeded++
		results = append(results, uploader.Result{Success: true, Attachment: &a})
	}
	h.Tracker.Clear()

	c.JSON(http.StatusOK, gin.H{
		"results":   results,
		"succeeded": succeeded,
		"warnings":  warnings,
	})
}

// readUploads buffers the multipart parts. Unreadable parts warn and drop.
func readUploads(files []*multipart.FileHeader) ([]staging.Incoming, []string) {
	var incoming []staging.Incoming
	var warnings []string
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			warnings = append(warnings, "could not read "+fh.Filename)
			continue
		}
		data, err := io.ReadAll(io.LimitReader(f, staging.MaxFileSize+1))
		f.Close()
		if err != nil {
			warnings = append(warnings, "could not read "+fh.Filename)
			continue
		}
		incoming = append(incoming, staging.Incoming{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return incoming, warnings
}
