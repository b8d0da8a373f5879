package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	"p9e.in/omreport/models"
	"p9e.in/omreport/pkg/imaging"
)

// commitQuality is fixed and independent of the capture policy: commit is
// a re-save of an already-captured image, not a fresh capture.
const commitQuality = 90

// strokeWidth in surface pixels.
const strokeWidth = 4

// Palette is the small fixed set of ink colors offered to the technician.
var Palette = map[string]color.RGBA{
	"red":    {R: 0xE5, G: 0x3E, B: 0x3E, A: 0xFF},
	"yellow": {R: 0xF6, G: 0xE0, B: 0x5E, A: 0xFF},
	"green":  {R: 0x38, G: 0xA1, B: 0x69, A: 0xFF},
	"blue":   {R: 0x31, G: 0x82, B: 0xCE, A: 0xFF},
	"white":  {R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	"black":  {R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
}

type state int

const (
	stateClosed state = iota
	stateOpen
)

// Editor is one modal annotation session over a single photo. Strokes are
// composited straight into the pixel buffer; there is no vector layer and
// no per-stroke undo. Nothing touches the photo record until Commit.
type Editor struct {
	st      state
	photo   *models.Photo
	surface *image.RGBA

	// decodeFailed means the stored buffer would not decode. The session
	// stays usable for caption editing; strokes and the buffer rewrite on
	// commit are disabled.
	decodeFailed bool

	drawingEnabled bool
	stroking       bool
	last           image.Point

	ink     color.RGBA
	caption string

	// Displayed element size. Pointer coordinates arrive in this space and
	// are rescaled into surface pixels before any ink lands.
	displayW, displayH float64
}

// Open loads the photo into a surface at its natural pixel dimensions
// (annotation operates at full captured resolution) and starts a session
// with drawing disabled.
func Open(photo *models.Photo, displayW, displayH float64) *Editor {
	e := &Editor{
		st:       stateOpen,
		photo:    photo,
		ink:      Palette["red"],
		caption:  photo.Caption,
		displayW: displayW,
		displayH: displayH,
	}
	img, err := imaging.DecodeDataURI(photo.Base64)
	if err != nil {
		log.Printf("annotate: photo %s: %v", photo.ID, err)
		e.decodeFailed = true
		return e
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	e.surface = rgba
	return e
}

// Opened reports whether the session is still live.
func (e *Editor) Opened() bool { return e.st == stateOpen }

// DecodeFailed reports whether the session is caption-only.
func (e *Editor) DecodeFailed() bool { return e.decodeFailed }

// SetDrawing toggles stroke input without ending the session.
func (e *Editor) SetDrawing(on bool) {
	e.drawingEnabled = on
	if !on {
		e.stroking = false
	}
}

// SetColor selects an ink from the palette; unknown names are ignored.
func (e *Editor) SetColor(name string) {
	if c, ok := Palette[name]; ok {
		e.ink = c
	}
}

// SetCaption stages the caption text; it reaches the photo on Commit.
func (e *Editor) SetCaption(s string) { e.caption = s }

// Caption returns the staged caption text.
func (e *Editor) Caption() string { return e.caption }

// PointerDown begins a stroke at the given display coordinates.
func (e *Editor) PointerDown(x, y float64) {
	if !e.canDraw() {
		return
	}
	e.stroking = true
	e.last = e.toSurface(x, y)
}

// PointerMove extends the stroke with a straight segment, composited
// immediately and permanently into the surface.
func (e *Editor) PointerMove(x, y float64) {
	if !e.canDraw() || !e.stroking {
		return
	}
	p := e.toSurface(x, y)
	strokeLine(e.surface, e.last.X, e.last.Y, p.X, p.Y, e.ink, strokeWidth)
	e.last = p
}

// PointerUp ends the stroke and forgets the last position.
func (e *Editor) PointerUp() { e.stroking = false }

// Commit flattens the session back into the photo record: re-encoded
// buffer, caption, edited flag. Persisting the parent report afterwards is
// the caller's job. In a caption-only session the stored buffer and the
// edited flag stay as they were.
func (e *Editor) Commit() error {
	if e.st != stateOpen {
		return fmt.Errorf("annotate: commit on closed editor")
	}
	defer e.close()
	e.photo.Caption = e.caption
	if e.decodeFailed {
		return nil
	}
	encoded, err := imaging.EncodeDataURI(e.surface, commitQuality)
	if err != nil {
		return err
	}
	e.photo.Base64 = encoded
	e.photo.Edited = true
	return nil
}

// Discard ends the session leaving the photo record exactly as it was.
func (e *Editor) Discard() { e.close() }

// Delete removes the photo from its parent report's list and ends the
// session, dropping any uncommitted ink.
func (e *Editor) Delete(report *models.Report) {
	defer e.close()
	for i := range report.Photos {
		if report.Photos[i].ID == e.photo.ID {
			report.Photos = append(report.Photos[:i], report.Photos[i+1:]...)
			return
		}
	}
}

func (e *Editor) canDraw() bool {
	return e.st == stateOpen && e.drawingEnabled && !e.decodeFailed && e.surface != nil
}

// toSurface rescales display coordinates into surface pixels. The surface
// is shown scaled-to-fit, so skipping this would silently misplace ink.
func (e *Editor) toSurface(x, y float64) image.Point {
	sx, sy := 1.0, 1.0
	if e.displayW > 0 {
		sx = float64(e.surface.Bounds().Dx()) / e.displayW
	}
	if e.displayH > 0 {
		sy = float64(e.surface.Bounds().Dy()) / e.displayH
	}
	return image.Pt(int(x*sx), int(y*sy))
}

func (e *Editor) close() {
	e.st = stateClosed
	e.stroking = false
	e.surface = nil
}
