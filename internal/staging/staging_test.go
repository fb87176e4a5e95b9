package staging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessID = "sess-1"

func jpegFile(name string, size int) Incoming {
	// Not decodable as an image, so compression keeps the bytes as-is.
	return Incoming{
		Name:     name,
		MimeType: "image/jpeg",
		Data:     bytes.Repeat([]byte{0xAB}, size),
	}
}

func TestAddFilesStagesWithoutUploading(t *testing.T) {
	area := NewArea()

	accepted, warnings := area.AddFiles(sessID, []Incoming{jpegFile("receipt.jpg", 2<<20)}, "meals")
	require.Len(t, accepted, 1)
	assert.Empty(t, warnings)

	files, links := area.Snapshot(sessID)
	require.Len(t, files, 1)
	assert.Empty(t, links)
	assert.Equal(t, "receipt.jpg", files[0].Name)
	assert.Equal(t, "meals", files[0].Category)
}

func TestAddFilesRejectsOversized(t *testing.T) {
	area := NewArea()

	accepted, warnings := area.AddFiles(sessID, []Incoming{
		jpegFile("huge.jpg", MaxFileSize+1),
		jpegFile("fine.jpg", 1024),
	}, "other")

	require.Len(t, accepted, 1)
	require.Len(t, warnings, 1, "exactly one warning per rejected file")
	assert.Contains(t, warnings[0], "huge.jpg")

	files, _ := area.Snapshot(sessID)
	assert.Len(t, files, 1)
}

func TestAddFilesRejectsUnsupportedType(t *testing.T) {
	area := NewArea()

	accepted, warnings := area.AddFiles(sessID, []Incoming{
		{Name: "movie.mp4", Data: []byte("x")},
		{Name: "archive.zip", Data: []byte("x")},
	}, "other")

	assert.Empty(t, accepted)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "movie.mp4")
	assert.Contains(t, warnings[1], "archive.zip")
}

func TestAddFilesKeepsSelectionOrder(t *testing.T) {
	area := NewArea()
	area.AddFiles(sessID, []Incoming{
		jpegFile("a.jpg", 10),
		jpegFile("b.jpg", 10),
		jpegFile("c.jpg", 10),
	}, "flights")

	files, _ := area.Snapshot(sessID)
	require.Len(t, files, 3)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, []string{files[0].Name, files[1].Name, files[2].Name})
}

func TestAddLink(t *testing.T) {
	area := NewArea()

	require.NoError(t, area.AddLink(sessID, "https://example.com/booking/123", "flights", ""))

	_, links := area.Snapshot(sessID)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/booking/123", links[0].URL)
	assert.Equal(t, "flights", links[0].Category)
}

func TestAddLinkRejectsMalformedURL(t *testing.T) {
	area := NewArea()
	area.AddLink(sessID, "https://example.com/ok", "other", "")

	for _, bad := range []string{"not a url at all", "example.com/no-scheme", "https://", ""} {
		err := area.AddLink(sessID, bad, "other", "")
		assert.Error(t, err, "URL %q should be rejected", bad)
	}

	_, links := area.Snapshot(sessID)
	assert.Len(t, links, 1, "pending list must be untouched by rejected links")
}

func TestRemoveFile(t *testing.T) {
	area := NewArea()
	area.AddFiles(sessID, []Incoming{jpegFile("a.jpg", 10), jpegFile("b.jpg", 10)}, "other")

	require.NoError(t, area.RemoveFile(sessID, 0))
	files, _ := area.Snapshot(sessID)
	require.Len(t, files, 1)
	assert.Equal(t, "b.jpg", files[0].Name)

	assert.Error(t, area.RemoveFile(sessID, 5))
	assert.Error(t, area.RemoveFile(sessID, -1))
}

func TestClear(t *testing.T) {
	area := NewArea()
	area.AddFiles(sessID, []Incoming{jpegFile("a.jpg", 10)}, "other")
	area.AddLink(sessID, "https://example.com", "other", "")

	area.Clear(sessID)

	files, links := area.Snapshot(sessID)
	assert.Empty(t, files)
	assert.Empty(t, links)
}

func TestSessionsAreIsolated(t *testing.T) {
	area := NewArea()
	area.AddFiles("one", []Incoming{jpegFile("a.jpg", 10)}, "other")

	files, _ := area.Snapshot("two")
	assert.Empty(t, files)
}

func TestValidateLink(t *testing.T) {
	assert.NoError(t, ValidateLink("http://example.com"))
	assert.Error(t, ValidateLink(strings.Repeat(":", 3)))
}
