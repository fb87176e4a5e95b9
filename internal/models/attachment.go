package models

import (
	"time"
)

// Attachment is one metadata row in the attachments table. FileURL holds the
// stored reference: a bucket-relative object path for rows written by this
// service, or a full URL containing the bucket marker for legacy rows.
type Attachment struct {
	ID         string     `json:"id"`
	TripID     string     `json:"trip_id"`
	OwnerID    string     `json:"owner_id"`
	FileName   string     `json:"file_name"`
	FileURL    string     `json:"file_url"`
	FileType   string     `json:"file_type"` // MIME type, or "link"
	FileSize   int64      `json:"file_size"`
	Category   string     `json:"category"`
	LinkURL    string     `json:"link_url,omitempty"`
	Note       string     `json:"note,omitempty"`
	ScanStatus string     `json:"scan_status"`
	ScannedAt  *time.Time `json:"scanned_at,omitempty"`
	UploadedAt time.Time  `json:"uploaded_at"`

	// View-model only, never persisted. DisplayURL is a short-lived signed
	// URL; StoragePath is the normalized object path behind FileURL.
	DisplayURL  string `json:"display_url,omitempty"`
	StoragePath string `json:"storage_path,omitempty"`
}

// IsLink reports whether the row is a link attachment with no stored object.
func (a *Attachment) IsLink() bool {
	return a.FileType == FileTypeLink
}

const FileTypeLink = "link"

// PendingFile is a staged upload waiting for a trip id. It lives only in
// memory; a restart loses it.
type PendingFile struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	MimeType string    `json:"mime_type"`
	Category string    `json:"category"`
	AddedAt  time.Time `json:"added_at"`
	Data     []byte    `json:"-"`
}

// PendingLink is a staged link attachment, same lifecycle as PendingFile.
type PendingLink struct {
	URL      string    `json:"url"`
	Category string    `json:"category"`
	Note     string    `json:"note"`
	AddedAt  time.Time `json:"added_at"`
}

// Progress is the one-at-a-time upload progress snapshot shown to the user.
type Progress struct {
	FileName string `json:"file_name"`
	Percent  int    `json:"percent"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
}
