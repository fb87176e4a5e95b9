package uploader

import (
	"sync"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
)

// Tracker holds the one-at-a-time upload progress shown to the user. It is
// set for the transfer in flight and cleared on completion or error.
type Tracker struct {
	mu      sync.RWMutex
	current *models.Progress
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Set(p models.Progress) {
	t.mu.Lock()
	t.current = &p
	t.mu.Unlock()
}

func (t *Tracker) Update(percent int) {
	t.mu.Lock()
	if t.current != nil {
		t.current.Percent = percent
	}
	t.mu.Unlock()
}

func (t *Tracker) Clear() {
	t.mu.Lock()
	t.current = nil
	t.mu.Unlock()
}

// Current returns a copy of the in-flight progress, if any.
func (t *Tracker) Current() (models.Progress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current == nil {
		return models.Progress{}, false
	}
	return *t.current, true
}
