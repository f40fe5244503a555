package media

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestNormalizeImagePassthrough(t *testing.T) {
	data := encodePNG(t, 10, 10)

	got := NormalizeImage(data, "photo.png", "image/png")

	assert.Equal(t, data, got.Data)
	assert.Equal(t, "photo.png", got.Filename)
	assert.Equal(t, "image/png", got.ContentType)
}

func TestNormalizeImageReencodesUnknownType(t *testing.T) {
	data := encodePNG(t, 10, 10)

	// Reported as HEIC but decodable: should come back as JPEG.
	got := NormalizeImage(data, "IMG_0001.heic", "image/heic")

	assert.Equal(t, "image/jpeg", got.ContentType)
	assert.Equal(t, "IMG_0001.jpg", got.Filename)

	decoded, err := imaging.Decode(bytes.NewReader(got.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), decoded.Bounds())
}

func TestNormalizeImageCapsDimensions(t *testing.T) {
	data := encodePNG(t, maxDimension+500, 100)

	got := NormalizeImage(data, "wide.bmp", "")

	decoded, err := imaging.Decode(bytes.NewReader(got.Data))
	require.NoError(t, err)
	assert.LessOrEqual(t, decoded.Bounds().Dx(), maxDimension)
}

func TestNormalizeImageNonImagePayload(t *testing.T) {
	data := []byte("definitely not an image")

	got := NormalizeImage(data, "notes.txt", "")

	assert.Equal(t, data, got.Data)
	assert.Equal(t, "notes.txt", got.Filename)
	assert.Equal(t, "application/octet-stream", got.ContentType)
}
