package staging

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/TripDesk-Travel/Attachment-Service/internal/compress"
	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
)

// MaxFileSize is the per-file upload ceiling.
const MaxFileSize = 10 << 20 // 10 MiB

// allowedExtensions mirrors what the expense reviewers accept as receipts:
// images, PDF, and legacy/modern Word and Excel documents.
var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".webp": true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
}

// Incoming is a file picked by the user before validation.
type Incoming struct {
	Name     string
	MimeType string
	Data     []byte
}

type session struct {
	files []models.PendingFile
	links []models.PendingLink
}

// Area holds staged files and links per session until a trip id exists.
// Nothing here is persisted; a restart drops every pending item.
type Area struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewArea() *Area {
	return &Area{sessions: make(map[string]*session)}
}

func (a *Area) session(id string) *session {
	s, ok := a.sessions[id]
	if !ok {
		s = &session{}
		a.sessions[id] = s
	}
	return s
}

// Validate applies the size ceiling and type allow-list to one file. The
// returned message is empty when the file is acceptable.
func Validate(f Incoming) string {
	if f.Size() > MaxFileSize {
		return fmt.Sprintf("%s is larger than 10MB and was skipped", f.Name)
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(f.Name))] {
		return fmt.Sprintf("%s is not a supported file type and was skipped", f.Name)
	}
	return ""
}

func (f Incoming) Size() int64 { return int64(len(f.Data)) }

// Prepare validates and compresses picked files without staging them, used
// both here and by the immediate-upload path. Each rejected file yields
// exactly one warning and is dropped; the rest of the batch continues.
func Prepare(files []Incoming, category string) (accepted []models.PendingFile, warnings []string) {
	for _, f := range files {
		if msg := Validate(f); msg != "" {
			warnings = append(warnings, msg)
			continue
		}
		data := compress.Shrink(f.Name, f.Data)
		accepted = append(accepted, models.PendingFile{
			Name:     f.Name,
			Size:     int64(len(data)),
			MimeType: f.MimeType,
			Category: category,
			AddedAt:  time.Now(),
			Data:     data,
		})
	}
	return accepted, warnings
}

// AddFiles validates and stages files under the chosen category, in
// selection order.
func (a *Area) AddFiles(sessionID string, files []Incoming, category string) (accepted []models.PendingFile, warnings []string) {
	accepted, warnings = Prepare(files, category)
	if len(accepted) == 0 {
		return accepted, warnings
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.session(sessionID)
	s.files = append(s.files, accepted...)
	return accepted, warnings
}

// ValidateLink rejects URLs that do not parse or lack a scheme or host.
func ValidateLink(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid link URL: %q", rawURL)
	}
	return nil
}

// AddLink stages a link attachment. A malformed URL is rejected and the
// list is left untouched.
func (a *Area) AddLink(sessionID, rawURL, category, note string) error {
	if err := ValidateLink(rawURL); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.session(sessionID)
	s.links = append(s.links, models.PendingLink{
		URL:      rawURL,
		Category: category,
		Note:     note,
		AddedAt:  time.Now(),
	})
	return nil
}

// RemoveFile discards a staged file by index. Only possible pre-upload.
func (a *Area) RemoveFile(sessionID string, i int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.session(sessionID)
	if i < 0 || i >= len(s.files) {
		return fmt.Errorf("no staged file at index %d", i)
	}
	s.files = append(s.files[:i], s.files[i+1:]...)
	return nil
}

// RemoveLink discards a staged link by index.
func (a *Area) RemoveLink(sessionID string, i int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.session(sessionID)
	if i < 0 || i >= len(s.links) {
		return fmt.Errorf("no staged link at index %d", i)
	}
	s.links = append(s.links[:i], s.links[i+1:]...)
	return nil
}

// Snapshot returns copies of the pending lists for display.
func (a *Area) Snapshot(sessionID string) ([]models.PendingFile, []models.PendingLink) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	files := make([]models.PendingFile, len(s.files))
	copy(files, s.files)
	links := make([]models.PendingLink, len(s.links))
	copy(links, s.links)
	return files, links
}

// Clear drops everything staged for the session. The uploader calls this
// only after every staged item has been attempted.
func (a *Area) Clear(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, sessionID)
}
