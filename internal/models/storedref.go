package models

import (
	"strings"
)

// BucketMarker is the path segment that identifies the attachments bucket
// inside legacy full-URL references.
const BucketMarker = "/travel-attachments/"

type RefKind int

const (
	// RefPath is a bucket-relative object path, the format this service writes.
	RefPath RefKind = iota
	// RefLegacyURL is a full URL containing the bucket marker, written by an
	// earlier version of the platform.
	RefLegacyURL
)

// StoredRef is the tagged form of an attachment's stored reference. Both
// variants resolve to the same underlying object.
type StoredRef struct {
	Kind  RefKind
	Value string
}

// ParseStoredRef classifies a raw stored reference.
func ParseStoredRef(raw string) StoredRef {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return StoredRef{Kind: RefLegacyURL, Value: raw}
	}
	return StoredRef{Kind: RefPath, Value: raw}
}

// StoragePath normalizes the reference to a bucket-relative object path.
// For legacy URLs that is the substring after the bucket marker, with any
// query string stripped. Returns false when no path can be derived.
func (r StoredRef) StoragePath() (string, bool) {
	switch r.Kind {
	case RefPath:
		if r.Value == "" {
			return "", false
		}
		return strings.TrimPrefix(r.Value, "/"), true
	case RefLegacyURL:
		i := strings.Index(r.Value, BucketMarker)
		if i < 0 {
			return "", false
		}
		p := r.Value[i+len(BucketMarker):]
		if j := strings.IndexByte(p, '?'); j >= 0 {
			p = p[:j]
		}
		if p == "" {
			return "", false
		}
		return p, true
	}
	return "", false
}
