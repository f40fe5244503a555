package media

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// Browser-safe content types passed through untouched.
var passthroughTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// maxDimension caps re-encoded uploads; phone photos routinely exceed this.
const maxDimension = 2560

// Normalized is the result of preparing an upload for web display.
type Normalized struct {
	Data        []byte
	Filename    string
	ContentType string
}

// NormalizeImage prepares an uploaded image for browser display. Known
// browser-safe types pass through as-is. Anything else decodable is
// re-encoded as JPEG, honoring the EXIF orientation tag and capping the
// longest edge. Payloads that aren't images at all come back unchanged with
// an octet-stream content type.
func NormalizeImage(data []byte, filename, reportedContentType string) Normalized {
	ct := strings.ToLower(strings.TrimSpace(reportedContentType))

	if passthroughTypes[ct] {
		return Normalized{Data: data, Filename: filename, ContentType: ct}
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		if ct == "" {
			ct = "application/octet-stream"
		}
		return Normalized{Data: data, Filename: filename, ContentType: ct}
	}

	img = applyOrientation(img, data)
	if img.Bounds().Dx() > maxDimension || img.Bounds().Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return Normalized{Data: data, Filename: filename, ContentType: "application/octet-stream"}
	}

	return Normalized{
		Data:        buf.Bytes(),
		Filename:    jpegName(filename),
		ContentType: "image/jpeg",
	}
}

// applyOrientation rotates the decoded image per its EXIF orientation tag.
// Missing or unreadable EXIF leaves the image untouched.
func applyOrientation(img image.Image, raw []byte) image.Image {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return img
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

func jpegName(filename string) string {
	if filename == "" {
		return "upload.jpg"
	}
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return fmt.Sprintf("%s.jpg", base)
}
