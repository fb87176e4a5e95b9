package resolve

import (
	"context"
	"time"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SignedURLTTL is the validity window of display URLs. The list endpoint
// re-resolves on every load, so a URL held longer than this breaks.
const SignedURLTTL = 24 * time.Hour

// Signer issues temporary authorized URLs for stored objects.
// *services.MinioService satisfies it.
type Signer interface {
	SignedURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}

// ForDisplay exchanges each record's stored reference for a signed URL.
// Records are resolved concurrently with no inter-record ordering; failures
// degrade to the derivable path or the stored reference itself, never to an
// error. The input rows are not mutated.
func ForDisplay(ctx context.Context, signer Signer, records []models.Attachment) []models.Attachment {
	out := make([]models.Attachment, len(records))
	copy(out, records)

	g, ctx := errgroup.WithContext(ctx)
	for i := range out {
		a := &out[i]
		g.Go(func() error {
			resolveOne(ctx, signer, a)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func resolveOne(ctx context.Context, signer Signer, a *models.Attachment) {
	if a.IsLink() {
		// Links are public as entered.
		a.DisplayURL = a.LinkURL
		return
	}

	path, ok := models.ParseStoredRef(a.FileURL).StoragePath()
	if !ok {
		a.DisplayURL = a.FileURL
		return
	}
	a.StoragePath = path

	u, err := signer.SignedURL(ctx, path, SignedURLTTL)
	if err != nil {
		// Not user-facing: the raw reference still renders something.
		log.Debugf("[RESOLVE] signed URL for %s failed: %v", path, err)
		a.DisplayURL = a.FileURL
		return
	}
	a.DisplayURL = u
}
