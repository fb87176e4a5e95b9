package compress

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
)

const (
	// MaxWidth is the ceiling applied to re-encoded images, aspect preserved.
	MaxWidth = 1600
	// JPEGQuality is the fixed re-encode quality factor.
	JPEGQuality = 80
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// IsImage reports whether the file name carries an image extension.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Shrink re-encodes an oversized image as JPEG capped at MaxWidth. Non-image
// files, decode failures, and re-encodes that are not strictly smaller all
// return the original bytes unchanged; Shrink never fails an upload.
func Shrink(name string, data []byte) []byte {
	if !IsImage(name) {
		return data
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.WithField("file", name).Debugf("[COMPRESS] decode failed, keeping original: %v", err)
		return data
	}

	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		log.WithField("file", name).Debugf("[COMPRESS] encode failed, keeping original: %v", err)
		return data
	}

	// The re-encode must pay for itself; the original name is kept either way.
	if buf.Len() >= len(data) {
		return data
	}
	return buf.Bytes()
}
