package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"signpad/internal/signature"
)

// SignaturePad is the drawing area of the signature dialog. Mouse and touch
// input are translated into pad events; the surface pixels are shown
// through a raster.
type SignaturePad struct {
	widget.BaseWidget
	pad    *signature.Pad
	raster *canvas.Raster
}

var _ fyne.Widget = (*SignaturePad)(nil)
var _ fyne.Draggable = (*SignaturePad)(nil)
var _ desktop.Mouseable = (*SignaturePad)(nil)
var _ desktop.Hoverable = (*SignaturePad)(nil)
var _ mobile.Touchable = (*SignaturePad)(nil)

// NewSignaturePad wraps pad. A pad without a surface gets a default one so
// that input is never handled before the context exists.
func NewSignaturePad(pad *signature.Pad) *SignaturePad {
	if pad.Surface() == nil {
		pad.Attach(signature.NewSurface(1, 1, signature.DefaultStrokeColor, signature.DefaultStrokeWidth))
	}
	s := &SignaturePad{pad: pad}
	s.raster = canvas.NewRaster(s.generate)
	s.ExtendBaseWidget(s)
	return s
}

// Pad exposes the underlying state machine.
func (s *SignaturePad) Pad() *signature.Pad {
	return s.pad
}

func (s *SignaturePad) generate(w, h int) image.Image {
	if surf := s.pad.Surface(); surf != nil {
		return surf.Image()
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// SetViewport recomputes the surface from the viewport size.
func (s *SignaturePad) SetViewport(viewport fyne.Size) {
	s.pad.OnSizeChange(signature.Size{Width: viewport.Width, Height: viewport.Height})
	s.Refresh()
}

// Reset clears the drawing.
func (s *SignaturePad) Reset() {
	s.pad.Reset()
	s.Refresh()
}

func (s *SignaturePad) MinSize() fyne.Size {
	size := s.pad.SurfaceSize()
	return fyne.NewSize(size.Width, size.Height)
}

func toPoint(pos fyne.Position) signature.Point {
	return signature.Point{X: pos.X, Y: pos.Y}
}

func (s *SignaturePad) down(pos fyne.Position) {
	s.pad.OnPointerDown(toPoint(pos))
}

func (s *SignaturePad) move(pos fyne.Position) {
	if s.pad.OnPointerMove(toPoint(pos)) {
		s.raster.Refresh()
	}
}

func (s *SignaturePad) up() {
	s.pad.OnPointerUp()
}

func (s *SignaturePad) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		s.down(e.Position)
	}
}

func (s *SignaturePad) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		s.up()
	}
}

func (s *SignaturePad) MouseMoved(e *desktop.MouseEvent) {
	s.move(e.Position)
}

func (s *SignaturePad) MouseIn(*desktop.MouseEvent) {}
func (s *SignaturePad) MouseOut()                   {}

func (s *SignaturePad) Dragged(e *fyne.DragEvent) {
	s.move(e.Position)
}

func (s *SignaturePad) DragEnd() {
	s.up()
}

func (s *SignaturePad) TouchDown(e *mobile.TouchEvent) {
	s.down(e.Position)
}

func (s *SignaturePad) TouchUp(*mobile.TouchEvent) {
	s.up()
}

func (s *SignaturePad) TouchCancel(*mobile.TouchEvent) {
	s.up()
}

func (s *SignaturePad) CreateRenderer() fyne.WidgetRenderer {
	r := &signaturePadRenderer{pad: s}
	r.background = canvas.NewRectangle(color.White)
	r.border = canvas.NewRectangle(color.Transparent)
	r.border.StrokeColor = color.Gray{Y: 150}
	r.border.StrokeWidth = 1
	return r
}

type signaturePadRenderer struct {
	pad        *SignaturePad
	background *canvas.Rectangle
	border     *canvas.Rectangle
}

func (r *signaturePadRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.pad.raster, r.border}
}

func (r *signaturePadRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.border.Resize(size)
	r.pad.raster.Resize(r.pad.MinSize())
}

func (r *signaturePadRenderer) MinSize() fyne.Size {
	return r.pad.MinSize()
}

func (r *signaturePadRenderer) Refresh() {
	r.Layout(r.pad.Size())
	canvas.Refresh(r.pad.raster)
	canvas.Refresh(r.pad)
}

func (r *signaturePadRenderer) Destroy() {}
