package signature

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
)

const (
	DefaultStrokeColor = "#000000"
	DefaultStrokeWidth = 2.0
)

// Surface is the raster the user signs on. It owns a single gg drawing
// context for its whole lifetime; resizing reallocates the pixels in place.
type Surface struct {
	dc          *gg.Context
	strokeColor string
	strokeWidth float64
}

// NewSurface allocates a transparent surface. Dimensions below one pixel are
// raised to one.
func NewSurface(width, height int, strokeColor string, strokeWidth float64) *Surface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if strokeColor == "" {
		strokeColor = DefaultStrokeColor
	}
	if strokeWidth <= 0 {
		strokeWidth = DefaultStrokeWidth
	}
	s := &Surface{
		dc:          gg.NewContext(width, height),
		strokeColor: strokeColor,
		strokeWidth: strokeWidth,
	}
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
	return s
}

func (s *Surface) Width() int  { return s.dc.Width() }
func (s *Surface) Height() int { return s.dc.Height() }

func (s *Surface) StrokeColor() string  { return s.strokeColor }
func (s *Surface) StrokeWidth() float64 { return s.strokeWidth }

// Resize changes the pixel dimensions and always leaves the surface blank,
// even when the dimensions did not change.
func (s *Surface) Resize(width, height int) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if err := s.dc.Resize(width, height); err != nil {
		return fmt.Errorf("resize surface: %w", err)
	}
	s.dc.Clear()
	return nil
}

// DrawSegment strokes a straight line between two points.
func (s *Surface) DrawSegment(from, to Point) error {
	s.dc.SetHexColor(s.strokeColor)
	s.dc.SetLineWidth(s.strokeWidth)
	s.dc.DrawLine(float64(from.X), float64(from.Y), float64(to.X), float64(to.Y))
	if err := s.dc.Stroke(); err != nil {
		return fmt.Errorf("stroke segment: %w", err)
	}
	return nil
}

// Clear resets every pixel to transparent.
func (s *Surface) Clear() {
	s.dc.ClearPath()
	s.dc.Clear()
}

// Image returns a copy of the current pixels.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// Snapshot returns an independent surface holding a copy of the pixels. The
// copy can be encoded off the UI goroutine while drawing continues.
func (s *Surface) Snapshot() *Surface {
	return &Surface{
		dc:          gg.NewContextForImage(s.dc.Image()),
		strokeColor: s.strokeColor,
		strokeWidth: s.strokeWidth,
	}
}

// EncodePNG writes the surface as a PNG image.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// Close releases the drawing context.
func (s *Surface) Close() error {
	return s.dc.Close()
}
