package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png" // uploaded stills may be PNG
	"io"
	"log"
	"strings"

	xdraw "golang.org/x/image/draw"

	"p9e.in/omreport/models"
)

const dataURIPrefix = "data:image/jpeg;base64,"

// NamedReader pairs an upload with its client-side filename for logging.
type NamedReader struct {
	Name   string
	Reader io.Reader
}

// Process resizes src under the policy and re-encodes it as an opaque JPEG
// data URI. A source with a zero dimension yields "", never an error: one
// bad frame must not block saving the rest of the report.
func Process(src image.Image, p Policy) string {
	if src == nil {
		return ""
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return ""
	}

	tw, th := targetSize(w, h, p.MaxDimension)

	// Opaque white ground: the output is always read back as JPEG, so any
	// source transparency has to be flattened here.
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)

	encoded, err := EncodeDataURI(dst, p.Quality)
	if err != nil {
		log.Printf("imaging: jpeg encode failed: %v", err)
		return ""
	}
	return encoded
}

// EncodeDataURI encodes img as a JPEG data URI at the given quality.
func EncodeDataURI(img image.Image, quality int) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURI turns a stored data URI (or a bare base64 payload) back
// into a decoded image.
func DecodeDataURI(s string) (image.Image, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ProcessBatch stages uploaded files as photos. Files are handled strictly
// one after another - decode, resize, encode, then the next - to bound peak
// memory on the handhelds technicians carry; do not parallelize this loop.
// A file that fails to decode is logged and skipped; the batch never
// aborts.
func ProcessBatch(files []NamedReader, p Policy) []models.Photo {
	photos := make([]models.Photo, 0, len(files))
	for _, f := range files {
		img, _, err := image.Decode(f.Reader)
		if err != nil {
			log.Printf("imaging: skipping %s: %v", f.Name, err)
			continue
		}
		encoded := Process(img, p)
		if encoded == "" {
			log.Printf("imaging: skipping %s: empty result", f.Name)
			continue
		}
		photos = append(photos, models.Photo{
			ID:     models.NewPhotoID(),
			Base64: encoded,
		})
	}
	return photos
}

// targetSize scales (w,h) down so the longer side fits max, preserving
// aspect ratio and flooring to integers. Sources already inside the limit
// pass through untouched; we never upscale.
func targetSize(w, h, max int) (int, int) {
	longer := w
	if h > w {
		longer = h
	}
	if max <= 0 || longer <= max {
		return w, h
	}
	scale := float64(max) / float64(longer)
	tw := int(float64(w) * scale)
	th := int(float64(h) * scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return tw, th
}
