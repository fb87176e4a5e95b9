package compress

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noisyPNG builds a PNG that does not compress well, so the JPEG re-encode
// has room to win.
func noisyPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestShrinkNonImagePassthrough(t *testing.T) {
	data := []byte("%PDF-1.4 not an image at all")
	out := Shrink("report.pdf", data)
	// Same backing bytes, not a copy.
	assert.Equal(t, &data[0], &out[0])
}

func TestShrinkUndecodableImagePassthrough(t *testing.T) {
	data := []byte("definitely not jpeg bytes")
	out := Shrink("broken.jpg", data)
	assert.Equal(t, &data[0], &out[0])
}

func TestShrinkLargeImage(t *testing.T) {
	original := noisyPNG(t, 2400, 1200)
	out := Shrink("photo.png", original)

	require.Less(t, len(out), len(original), "re-encode should be strictly smaller")

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), MaxWidth)

	// JPEG magic bytes.
	require.GreaterOrEqual(t, len(out), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, out[:2])
}

func TestShrinkKeepsOriginalWhenNotSmaller(t *testing.T) {
	// A tiny uniform PNG beats any JPEG re-encode of itself.
	img := imaging.New(8, 8, color.White)
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	data := buf.Bytes()

	out := Shrink("dot.png", data)
	assert.Equal(t, &data[0], &out[0])
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("a.JPG"))
	assert.True(t, IsImage("b.webp"))
	assert.False(t, IsImage("c.pdf"))
	assert.False(t, IsImage("noext"))
}
