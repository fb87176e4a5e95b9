package util

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
	clamd "github.com/dutchcoders/go-clamd"
	log "github.com/sirupsen/logrus"
)

// ScanAttachment downloads a stored object, runs it through ClamAV, and
// records the verdict on the attachment row. Infected objects are removed
// from storage; their rows stay so the reviewer sees what happened.
func ScanAttachment(attachmentID, objectName, clamAvURL string) {
	minioService := services.GetMinioService()
	if minioService == nil {
		log.Error("Scan skipped: storage service not available")
		return
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("scan-%s%s", attachmentID, filepath.Ext(objectName)))

	if err := minioService.DownloadFile(objectName, tempPath); err != nil {
		log.Errorf("Failed to download %s for scanning: %v", objectName, err)
		return
	}
	defer os.Remove(tempPath)

	c := clamd.NewClamd(clamAvURL)
	response, err := c.ScanFile(tempPath)
	if err != nil {
		log.Errorf("Scan failed for %s: %v", attachmentID, err)
		return
	}

	status := "clean"
	for res := range response {
		if res.Status == clamd.RES_FOUND {
			log.Warnf("Virus detected in %s: %s", attachmentID, res.Description)
			status = "infected"

			if err := minioService.RemoveObject(context.Background(), objectName); err != nil {
				log.Errorf("Failed to delete infected object %s: %v", objectName, err)
			}
		}
	}

	services.ScanResultsTotal.WithLabelValues(status).Inc()

	if err := services.UpdateAttachmentScanStatus(attachmentID, status, time.Now()); err != nil {
		log.Errorf("Failed to update scan status for %s: %v", attachmentID, err)
	} else {
		log.Infof("Scan finished for %s: %s", attachmentID, status)
	}
}
