package uploader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	"github.com/TripDesk-Travel/Attachment-Service/internal/resolve"
	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
	"github.com/TripDesk-Travel/Attachment-Service/internal/staging"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Result is the per-item outcome of a batch upload.
type Result struct {
	Success    bool               `json:"success"`
	Attachment *models.Attachment `json:"attachment,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Store is the object-storage surface the upload driver uses.
// *services.MinioService satisfies it.
type Store interface {
	UploadWithProgress(ctx context.Context, objectName string, data []byte, contentType string, onProgress services.ProgressFunc) error
	SignedURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
	RemoveObject(ctx context.Context, objectName string) error
}

// Metadata persists attachment rows.
type Metadata interface {
	SaveAttachment(a models.Attachment) error
	DeleteAttachment(id string) bool
}

// Publisher emits domain events after successful uploads.
type Publisher interface {
	Publish(subject string, payload interface{}) error
}

// Driver moves attachments between the caller, object storage, and the
// metadata table.
type Driver struct {
	Store Store
	Meta  Metadata
	Bus   Publisher
}

// NewDriver wires the driver to the package-level services.
func NewDriver() *Driver {
	d := &Driver{Meta: serviceMetadata{}, Bus: serviceBus{}}
	if m := services.GetMinioService(); m != nil {
		d.Store = m
	}
	return d
}

type serviceMetadata struct{}

func (serviceMetadata) SaveAttachment(a models.Attachment) error { return services.SaveAttachment(a) }
func (serviceMetadata) DeleteAttachment(id string) bool          { return services.DeleteAttachment(id) }

type serviceBus struct{}

func (serviceBus) Publish(subject string, payload interface{}) error {
	return services.PublishEvent(subject, payload)
}

// ObjectName derives the storage path for a new upload. The short random
// suffix keeps same-millisecond uploads from colliding.
func ObjectName(ownerID, tripID, fileName string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%s/%s/%d-%s%s", ownerID, tripID, at.UnixMilli(), suffix, ext)
}

// UploadOne sends one staged file to object storage and inserts its metadata
// row. A storage failure creates no row. A row-insert failure surfaces the
// error but leaves the uploaded object in place; there is no rollback, the
// users.deleted sweep reclaims strays. The returned attachment carries a
// best-effort signed URL; if issuance fails the stored path stands in and
// the row still counts as created.
func (d *Driver) UploadOne(ctx context.Context, item models.PendingFile, ownerID, tripID string, onProgress func(percent int)) (models.Attachment, error) {
	if d.Store == nil {
		return models.Attachment{}, fmt.Errorf("storage service not available")
	}

	now := time.Now()
	objectName := ObjectName(ownerID, tripID, item.Name, now)

	contentType := item.MimeType
	if contentType == "" {
		contentType = services.GetContentType(strings.ToLower(filepath.Ext(item.Name)))
	}

	err := d.Store.UploadWithProgress(ctx, objectName, item.Data, contentType, func(sent, total int64) {
		if onProgress != nil && total > 0 {
			onProgress(int(sent * 100 / total))
		}
	})
	if err != nil {
		services.UploadsTotal.WithLabelValues("storage_error").Inc()
		return models.Attachment{}, fmt.Errorf("upload error for %s: %w", item.Name, err)
	}

	attachment := models.Attachment{
		ID:         uuid.New().String(),
		TripID:     tripID,
		OwnerID:    ownerID,
		FileName:   item.Name,
		FileURL:    objectName,
		FileType:   contentType,
		FileSize:   int64(len(item.Data)),
		Category:   item.Category,
		ScanStatus: "pending",
		UploadedAt: now,
	}

	if err := d.Meta.SaveAttachment(attachment); err != nil {
		services.UploadsTotal.WithLabelValues("insert_error").Inc()
		return models.Attachment{}, fmt.Errorf("failed to save metadata for %s: %w", item.Name, err)
	}

	services.UploadsTotal.WithLabelValues("ok").Inc()
	services.UploadBytesTotal.Add(float64(len(item.Data)))

	if d.Bus != nil {
		if err := d.Bus.Publish("attachments.uploaded", map[string]interface{}{
			"attachment_id": attachment.ID,
			"object_name":   objectName,
			"file_type":     contentType,
			"size":          attachment.FileSize,
			"owner_id":      ownerID,
			"trip_id":       tripID,
			"uploaded_at":   now.UTC().Format(time.RFC3339),
		}); err != nil {
			log.Warnf("failed to publish attachments.uploaded event: %v", err)
		}
	}

	attachment.StoragePath = objectName
	if signed, err := d.Store.SignedURL(ctx, objectName, resolve.SignedURLTTL); err == nil {
		attachment.DisplayURL = signed
	} else {
		log.Debugf("[UPLOAD] signed URL for %s failed, raw path stands in: %v", objectName, err)
		attachment.DisplayURL = objectName
	}

	return attachment, nil
}

// InsertLink persists a staged link as a metadata-only row. No scan ever
// visits a link, so its scan status is terminal from the start.
func (d *Driver) InsertLink(item models.PendingLink, ownerID, tripID string) (models.Attachment, error) {
	attachment := models.Attachment{
		ID:         uuid.New().String(),
		TripID:     tripID,
		OwnerID:    ownerID,
		FileName:   item.URL,
		FileURL:    item.URL,
		FileType:   models.FileTypeLink,
		FileSize:   0,
		Category:   item.Category,
		LinkURL:    item.URL,
		Note:       item.Note,
		ScanStatus: "clean",
		UploadedAt: time.Now(),
	}
	if err := d.Meta.SaveAttachment(attachment); err != nil {
		return models.Attachment{}, fmt.Errorf("failed to save link: %w", err)
	}
	attachment.DisplayURL = item.URL
	return attachment, nil
}

// UploadAll drains a session's staging area into a trip: files first, then
// links, strictly one after another. Per-item failures are recorded and the
// batch continues; the staging list is cleared only after every item has
// been attempted. Returns the per-item results and the success count.
func (d *Driver) UploadAll(ctx context.Context, area *staging.Area, tracker *Tracker, sessionID, ownerID, tripID string) ([]Result, int) {
	files, links := area.Snapshot(sessionID)
	total := len(files) + len(links)
	if total == 0 {
		return nil, 0
	}

	results := make([]Result, 0, total)
	succeeded := 0

	for i, f := range files {
		tracker.Set(models.Progress{FileName: f.Name, Percent: 0, Index: i + 1, Total: total})
		a, err := d.UploadOne(ctx, f, ownerID, tripID, tracker.Update)
		if err != nil {
			log.Errorf("[UPLOAD] %s failed: %v", f.Name, err)
			results = append(results, Result{Success: false, Error: err.Error()})
			continue
		}
		succeeded++
		results = append(results, Result{Success: true, Attachment: &a})
	}

	for i, l := range links {
		tracker.Set(models.Progress{FileName: l.URL, Percent: 0, Index: len(files) + i + 1, Total: total})
		a, err := d.InsertLink(l, ownerID, tripID)
		if err != nil {
			log.Errorf("[UPLOAD] link %s failed: %v", l.URL, err)
			results = append(results, Result{Success: false, Error: err.Error()})
			continue
		}
		succeeded++
		results = append(results, Result{Success: true, Attachment: &a})
	}

	tracker.Clear()
	area.Clear(sessionID)
	return results, succeeded
}

// Delete removes an attachment's stored object and its metadata row in one
// server-side operation. Object removal is best-effort: a failure, or an
// unavailable storage service, is logged and the row delete still runs, so
// at worst an orphaned object survives until the owner-prefix sweep. A
// failed row delete is the only error outcome. Links skip the storage call.
func (d *Driver) Delete(ctx context.Context, record models.Attachment) error {
	if !record.IsLink() {
		if path, ok := models.ParseStoredRef(record.FileURL).StoragePath(); !ok {
			log.Warnf("[DELETE] no storage path derivable from %q for attachment %s", record.FileURL, record.ID)
		} else if d.Store == nil {
			log.Warnf("[DELETE] storage service not available, leaving object %s for the owner sweep", path)
		} else if err := d.Store.RemoveObject(ctx, path); err != nil {
			log.Warnf("[DELETE] failed to remove object %s for attachment %s: %v", path, record.ID, err)
		}
	}

	if !d.Meta.DeleteAttachment(record.ID) {
		return fmt.Errorf("failed to delete attachment %s", record.ID)
	}
	return nil
}
