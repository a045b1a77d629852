// Package signature models the signature capture surface: pointer tracking,
// segment drawing, the touched gate and PNG export. It is independent of any
// UI toolkit and must only be driven from one goroutine.
package signature

import (
	"bytes"
	"errors"
	"io"
	"log"
)

var (
	// ErrNothingDrawn is returned by Submit before any segment was drawn.
	ErrNothingDrawn = errors.New("signature: nothing drawn")
	// ErrNotAttached is returned when no surface has been attached yet.
	ErrNotAttached = errors.New("signature: surface not attached")
	// ErrEmptyImage marks a rasterization that produced no bytes.
	ErrEmptyImage = errors.New("signature: rasterization produced no data")
)

// ResetPolicy decides what Reset does with the touched flag.
type ResetPolicy int

const (
	// KeepTouched only wipes the pixels. A reset surface can still be
	// submitted as long as something had been drawn before.
	KeepTouched ResetPolicy = iota
	// ClearTouched also drops the touched flag, so a new stroke is required.
	ClearTouched
)

func (p ResetPolicy) String() string {
	if p == ClearTouched {
		return "clear"
	}
	return "keep"
}

// ParseResetPolicy accepts "keep" and "clear"; anything else is KeepTouched.
func ParseResetPolicy(s string) ResetPolicy {
	if s == "clear" {
		return ClearTouched
	}
	return KeepTouched
}

// Pad is the capture state machine. It is Idle or Pressed, and untouched or
// touched.
type Pad struct {
	surface *Surface
	layout  Layout
	policy  ResetPolicy
	size    Size
	newName func() string
	encode  Encoder

	last    Point
	hasLast bool
	pressed bool
	touched bool

	strokes []Stroke
	current *Stroke
}

type Option func(*Pad)

// Encoder rasterizes a surface snapshot into w.
type Encoder func(w io.Writer, s *Surface) error

func encodePNG(w io.Writer, s *Surface) error { return s.EncodePNG(w) }

func WithLayout(l Layout) Option {
	return func(p *Pad) { p.layout = l }
}

func WithResetPolicy(policy ResetPolicy) Option {
	return func(p *Pad) { p.policy = policy }
}

// WithNameFunc replaces the random file name generator.
func WithNameFunc(fn func() string) Option {
	return func(p *Pad) {
		if fn != nil {
			p.newName = fn
		}
	}
}

// WithEncoder replaces the PNG encoder used by Submit.
func WithEncoder(enc Encoder) Option {
	return func(p *Pad) {
		if enc != nil {
			p.encode = enc
		}
	}
}

func NewPad(opts ...Option) *Pad {
	p := &Pad{
		layout:  DefaultLayout(),
		policy:  KeepTouched,
		newName: RandomName,
		encode:  encodePNG,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Attach binds the drawing surface. It has to happen before input handlers
// are wired up; until then moves draw nothing.
func (p *Pad) Attach(s *Surface) {
	p.surface = s
	if s != nil && p.size.IsZero() {
		p.size = Size{Width: float32(s.Width()), Height: float32(s.Height())}
	}
}

func (p *Pad) Surface() *Surface        { return p.surface }
func (p *Pad) SurfaceSize() Size        { return p.size }
func (p *Pad) Layout() Layout           { return p.layout }
func (p *Pad) ResetPolicy() ResetPolicy { return p.policy }
func (p *Pad) Touched() bool            { return p.touched }
func (p *Pad) Pressed() bool            { return p.pressed }

// OnSizeChange recomputes the surface size from the viewport. The surface
// comes back blank and the pad returns to Idle, untouched.
func (p *Pad) OnSizeChange(viewport Size) {
	p.size = p.layout.SurfaceSize(viewport)
	if p.surface != nil {
		w, h := p.size.Pixels()
		if err := p.surface.Resize(w, h); err != nil {
			log.Printf("[PAD] %v", err)
		}
	}
	p.touched = false
	p.pressed = false
	p.hasLast = false
	p.strokes = nil
	p.current = nil
}

// OnPointerDown starts a press at pt. Nothing is drawn yet.
func (p *Pad) OnPointerDown(pt Point) {
	p.pressed = true
	p.moveTo(pt)
	p.closeStroke()
}

// OnPointerMove draws a segment from the last position to pt while pressed.
// It reports whether a segment was drawn; undefined endpoints are skipped
// silently.
func (p *Pad) OnPointerMove(pt Point) bool {
	if !p.pressed || p.surface == nil {
		return false
	}
	from, ok := p.last, p.hasLast
	p.moveTo(pt)
	if !ok || !pt.Defined() {
		p.closeStroke()
		return false
	}
	if err := p.surface.DrawSegment(from, pt); err != nil {
		log.Printf("[PAD] %v", err)
		return false
	}
	p.touched = true
	if p.current == nil {
		p.current = newStroke(from, p.surface.StrokeColor(), p.surface.StrokeWidth())
	}
	p.current.Points = append(p.current.Points, pt)
	return true
}

// OnPointerUp ends the press.
func (p *Pad) OnPointerUp() {
	p.pressed = false
	p.closeStroke()
}

// Reset wipes the surface. Whether the touched flag survives depends on the
// pad's ResetPolicy.
func (p *Pad) Reset() {
	if p.surface != nil {
		p.surface.Clear()
	}
	p.strokes = nil
	p.current = nil
	if p.policy == ClearTouched {
		p.touched = false
	}
}

// Strokes returns copies of the recorded strokes, including one in progress.
func (p *Pad) Strokes() []Stroke {
	out := make([]Stroke, 0, len(p.strokes)+1)
	for _, s := range p.strokes {
		out = append(out, s.clone())
	}
	if p.current != nil {
		out = append(out, p.current.clone())
	}
	return out
}

// Submit rasterizes the surface into a PNG file. The pixels are copied
// before Submit returns; encoding runs on its own goroutine and onFinish is
// handed to dispatch (nil means call directly) at most once. An encoding
// failure is logged and onFinish is never called.
func (p *Pad) Submit(dispatch func(func()), onFinish func(File)) error {
	if !p.touched {
		return ErrNothingDrawn
	}
	if p.surface == nil {
		return ErrNotAttached
	}
	snap := p.surface.Snapshot()
	name := p.newName()
	encode := p.encode

	go func() {
		defer snap.Close()

		var buf bytes.Buffer
		if err := encode(&buf, snap); err != nil {
			log.Printf("[PAD] rasterize %s: %v", name, err)
			return
		}
		if buf.Len() == 0 {
			log.Printf("[PAD] rasterize %s: %v", name, ErrEmptyImage)
			return
		}
		file := File{Name: name, MIMEType: PNGMIMEType, Data: buf.Bytes()}
		if onFinish == nil {
			return
		}
		if dispatch == nil {
			onFinish(file)
			return
		}
		dispatch(func() { onFinish(file) })
	}()
	return nil
}

func (p *Pad) moveTo(pt Point) {
	p.last = pt
	p.hasLast = pt.Defined()
}

func (p *Pad) closeStroke() {
	if p.current != nil && len(p.current.Points) > 1 {
		p.strokes = append(p.strokes, *p.current)
	}
	p.current = nil
}
