package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"strings"
	"testing"
)

func makeImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 120, G: 140, B: 160, A: 255}), image.Point{}, draw.Src)
	return img
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, makeImage(w, h), nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestProcessResize(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		policy Policy
		wantW  int
		wantH  int
	}{
		{"inside limit passes through", 640, 480, PolicyMedium, 640, 480},
		{"landscape downscale", 2048, 1536, PolicyMedium, 1024, 768},
		{"portrait downscale", 1536, 2048, PolicyMedium, 768, 1024},
		{"high tier", 3000, 1000, PolicyHigh, 1600, 533},
		{"low tier passes small", 500, 500, PolicyLow, 500, 500},
		{"low tier wide", 900, 300, PolicyLow, 800, 266},
		{"exactly at limit", 1024, 512, PolicyMedium, 1024, 512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Process(makeImage(tt.w, tt.h), tt.policy)
			if out == "" {
				t.Fatal("expected output, got empty result")
			}
			if !strings.HasPrefix(out, "data:image/jpeg;base64,") {
				t.Fatalf("output must be a complete data URI, got %q", out[:min(len(out), 40)])
			}
			img, err := DecodeDataURI(out)
			if err != nil {
				t.Fatalf("decode output: %v", err)
			}
			gotW, gotH := img.Bounds().Dx(), img.Bounds().Dy()
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("dimensions = %dx%d, expected %dx%d", gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestProcessNeverUpscales(t *testing.T) {
	out := Process(makeImage(100, 80), PolicyHigh)
	img, err := DecodeDataURI(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 80 {
		t.Errorf("small source must pass through, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestProcessZeroDimension(t *testing.T) {
	if out := Process(image.NewRGBA(image.Rect(0, 0, 0, 0)), PolicyMedium); out != "" {
		t.Errorf("zero-dimension source must yield empty result, got %d chars", len(out))
	}
	if out := Process(nil, PolicyMedium); out != "" {
		t.Error("nil source must yield empty result")
	}
}

func TestProcessFlattensToOpaqueJPEG(t *testing.T) {
	// Fully transparent source must come out as white, not black.
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	out := Process(img, PolicyMedium)
	decoded, err := DecodeDataURI(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := decoded.At(16, 16).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent input must flatten to white, got rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestProcessBatchSkipsCorrupt(t *testing.T) {
	widths := []int{10, 20, 30, 40, 50}
	files := make([]NamedReader, 0, len(widths))
	for i, w := range widths {
		var payload []byte
		if i == 2 {
			payload = []byte("definitely not an image")
		} else {
			payload = jpegBytes(t, w, 10)
		}
		files = append(files, NamedReader{Name: "photo.jpg", Reader: bytes.NewReader(payload)})
	}

	photos := ProcessBatch(files, PolicyMedium)
	if len(photos) != 4 {
		t.Fatalf("expected 4 staged photos, got %d", len(photos))
	}

	wantWidths := []int{10, 20, 40, 50}
	seen := map[string]bool{}
	for i, p := range photos {
		if p.ID == "" || seen[p.ID] {
			t.Errorf("photo %d: id %q not unique", i, p.ID)
		}
		seen[p.ID] = true
		img, err := DecodeDataURI(p.Base64)
		if err != nil {
			t.Fatalf("photo %d undecodable: %v", i, err)
		}
		if img.Bounds().Dx() != wantWidths[i] {
			t.Errorf("photo %d: width %d, expected %d (order must survive the skip)", i, img.Bounds().Dx(), wantWidths[i])
		}
	}
}

func TestDecodeDataURIBarePayload(t *testing.T) {
	out := Process(makeImage(16, 16), PolicyMedium)
	bare := strings.TrimPrefix(out, "data:image/jpeg;base64,")
	if _, err := DecodeDataURI(bare); err != nil {
		t.Errorf("bare payload must decode too: %v", err)
	}
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Policy
	}{
		{"high", "high", PolicyHigh},
		{"medium", "medium", PolicyMedium},
		{"low", "low", PolicyLow},
		{"unset defaults to medium", "", PolicyMedium},
		{"unknown defaults to medium", "ultra", PolicyMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolicyFor(tt.in); got != tt.want {
				t.Errorf("PolicyFor(%q) = %+v, expected %+v", tt.in, got, tt.want)
			}
		})
	}
}
