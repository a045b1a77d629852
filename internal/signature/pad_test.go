package signature

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttachedPad(t *testing.T, viewport Size, opts ...Option) *Pad {
	t.Helper()
	p := NewPad(opts...)
	size := p.Layout().SurfaceSize(viewport)
	w, h := size.Pixels()
	s := NewSurface(w, h, DefaultStrokeColor, DefaultStrokeWidth)
	t.Cleanup(func() { _ = s.Close() })
	p.Attach(s)
	p.OnSizeChange(viewport)
	return p
}

func submitAndWait(t *testing.T, p *Pad) (File, bool) {
	t.Helper()
	done := make(chan File, 2)
	require.NoError(t, p.Submit(nil, func(f File) { done <- f }))
	select {
	case f := <-done:
		select {
		case <-done:
			t.Fatal("onFinish called more than once")
		case <-time.After(50 * time.Millisecond):
		}
		return f, true
	case <-time.After(5 * time.Second):
		return File{}, false
	}
}

func alphaAt(p *Pad, x, y int) uint32 {
	_, _, _, a := p.Surface().Image().At(x, y).RGBA()
	return a
}

func TestPadDrawAndSubmitScenario(t *testing.T) {
	p := newAttachedPad(t, Size{Width: 800, Height: 600})

	assert.Equal(t, Size{Width: 280, Height: 180}, p.SurfaceSize())
	assert.Equal(t, 280, p.Surface().Width())
	assert.Equal(t, 180, p.Surface().Height())

	p.OnPointerDown(Point{X: 10, Y: 10})
	assert.True(t, p.Pressed())
	assert.False(t, p.Touched(), "pointer down alone must not touch the surface")

	assert.True(t, p.OnPointerMove(Point{X: 20, Y: 20}))
	assert.True(t, p.Touched())
	assert.NotZero(t, alphaAt(p, 15, 15), "segment midpoint should be painted")
	assert.Zero(t, alphaAt(p, 200, 150), "far corner should stay blank")

	p.OnPointerUp()
	assert.False(t, p.Pressed())

	f, ok := submitAndWait(t, p)
	require.True(t, ok, "onFinish was not called")
	assert.True(t, ValidName(f.Name), "unexpected name %q", f.Name)
	assert.Equal(t, PNGMIMEType, f.MIMEType)

	img, err := png.Decode(bytes.NewReader(f.Data))
	require.NoError(t, err)
	assert.Equal(t, 280, img.Bounds().Dx())
	assert.Equal(t, 180, img.Bounds().Dy())
	_, _, _, a := img.At(15, 15).RGBA()
	assert.NotZero(t, a)
}

func TestPadSubmitUntouched(t *testing.T) {
	p := newAttachedPad(t, Size{Width: 800, Height: 600})

	called := make(chan struct{}, 1)
	err := p.Submit(nil, func(File) { called <- struct{}{} })
	assert.ErrorIs(t, err, ErrNothingDrawn)

	select {
	case <-called:
		t.Fatal("onFinish must not run for an untouched surface")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPadSubmitUsesDispatcher(t *testing.T) {
	p := newAttachedPad(t, Size{Width: 400, Height: 400}, WithNameFunc(func() string { return "42.png" }))
	p.OnPointerDown(Point{X: 5, Y: 5})
	p.OnPointerMove(Point{X: 50, Y: 60})

	dispatched := make(chan func(), 1)
	got := make(chan File, 1)
	require.NoError(t, p.Submit(func(fn func()) { dispatched <- fn }, func(f File) { got <- f }))

	select {
	case fn := <-dispatched:
		select {
		case <-got:
			t.Fatal("onFinish ran before the dispatcher invoked it")
		default:
		}
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher never called")
	}
	f := <-got
	assert.Equal(t, "42.png", f.Name)
}

func TestPadSubmitEncodeFailure(t *testing.T) {
	tests := []struct {
		name   string
		encode func(io.Writer, *Surface) error
	}{
		{"encoder error", func(io.Writer, *Surface) error { return errors.New("boom") }},
		{"empty output", func(io.Writer, *Surface) error { return nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := make(chan struct{})
			enc := func(w io.Writer, s *Surface) error {
				defer close(encoded)
				return tt.encode(w, s)
			}
			p := newAttachedPad(t, Size{Width: 800, Height: 600}, WithEncoder(enc))
			p.OnPointerDown(Point{X: 10, Y: 10})
			p.OnPointerMove(Point{X: 20, Y: 20})

			dispatched := make(chan struct{}, 1)
			finished := make(chan struct{}, 1)
			require.NoError(t, p.Submit(
				func(fn func()) { dispatched <- struct{}{}; fn() },
				func(File) { finished <- struct{}{} }))

			select {
			case <-encoded:
			case <-time.After(5 * time.Second):
				t.Fatal("encoder never ran")
			}
			select {
			case <-dispatched:
				t.Fatal("dispatch must not run when encoding yields nothing")
			case <-finished:
				t.Fatal("onFinish must not run when encoding yields nothing")
			case <-time.After(100 * time.Millisecond):
			}
		})
	}
}

func TestPadSnapshotIsolatedFromLaterDrawing(t *testing.T) {
	p := newAttachedPad(t, Size{Width: 800, Height: 600})
	p.OnPointerDown(Point{X: 10, Y: 10})
	p.OnPointerMove(Point{X: 20, Y: 20})

	dispatched := make(chan func(), 1)
	got := make(chan File, 1)
	require.NoError(t, p.Submit(func(fn func()) { dispatched <- fn }, func(f File) { got <- f }))

	// keeps drawing while the encode is in flight
	p.OnPointerMove(Point{X: 200, Y: 150})
	p.Reset()

	(<-dispatched)()
	f := <-got
	img, err := png.Decode(bytes.NewReader(f.Data))
	require.NoError(t, err)
	_, _, _, a := img.At(15, 15).RGBA()
	assert.NotZero(t, a)
}

func TestPadMoveRequiresPress(t *testing.T) {
	p := newAttachedPad(t, Size{Width: 800, Height: 600})

	assert.False(t, p.OnPointerMove(Point{X: 10, Y: 10}))
	assert.False(t, p.OnPointerMove(Point{X: 30, Y: 30}))
	assert.False(t, p.Touched())

	p.OnPointerDown(Point{X: 10, Y: 10})
	p.OnPointerUp()
	assert.False(t, p.OnPointerMove(Point{X: 30, Y: 30}))
	assert.False(t, p.Touched())
}

func TestPadMoveWithoutSurface(t *testing.T) {
	p := NewPad()
	p.OnPointerDown(Point{X: 1, Y: 1})
	assert.False(t, p.OnPointerMove(Point{X: 5, Y: 5}))
	assert.False(t, p.Touched())
	assert.ErrorIs(t, p.Submit(nil, nil), ErrNothingDrawn)
}

func TestPadUndefinedEndpoints(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name    string
		down    Point
		moves   []Point
		touched bool
	}{
		{"undefined start", Point{X: nan, Y: 4}, []Point{{X: 10, Y: 10}}, false},
		{"undefined end", Point{X: 4, Y: 4}, []Point{{X: inf, Y: 10}}, false},
		{"recovers after undefined start", Point{X: nan, Y: nan}, []Point{{X: 10, Y: 10}, {X: 20, Y: 20}}, true},
		{"gap in the middle", Point{X: 4, Y: 4}, []Point{{X: nan, Y: 1}, {X: 30, Y: 30}}, false},
		{"zero is a valid coordinate", Point{X: 0, Y: 0}, []Point{{X: 10, Y: 0}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newAttachedPad(t, Size{Width: 800, Height: 600})
			p.OnPointerDown(tt.down)
			for _, m := range tt.moves {
				p.OnPointerMove(m)
			}
			p.OnPointerUp()
			assert.Equal(t, tt.touched, p.Touched())
		})
	}
}

func TestPadResizeResetsTouched(t *testing.T) {
	p := newAttachedPad(t, Size{Width: 800, Height: 600})
	p.OnPointerDown(Point{X: 10, Y: 10})
	p.OnPointerMove(Point{X: 20, Y: 20})
	require.True(t, p.Touched())

	p.OnSizeChange(Size{Width: 600, Height: 1000})
	assert.False(t, p.Touched())
	assert.False(t, p.Pressed())
	assert.Equal(t, Size{Width: 540, Height: 300}, p.SurfaceSize())
	assert.Equal(t, 540, p.Surface().Width())
	assert.Equal(t, 300, p.Surface().Height())
	assert.Empty(t, p.Strokes())

	// the press was dropped, so moving does not draw
	assert.False(t, p.OnPointerMove(Point{X: 40, Y: 40}))
	assert.ErrorIs(t, p.Submit(nil, nil), ErrNothingDrawn)
}

func TestPadResizeSameSizeStillResets(t *testing.T) {
	p := newAttachedPad(t, Size{Width: 800, Height: 600})
	p.OnPointerDown(Point{X: 10, Y: 10})
	p.OnPointerMove(Point{X: 20, Y: 20})

	p.OnSizeChange(Size{Width: 800, Height: 600})
	assert.False(t, p.Touched())
	assert.Zero(t, alphaAt(p, 15, 15))
}

func TestPadResetKeepTouched(t *testing.T) {
	p := newAttachedPad(t, Size{Width: 800, Height: 600})
	require.Equal(t, KeepTouched, p.ResetPolicy())
	p.OnPointerDown(Point{X: 10, Y: 10})
	p.OnPointerMove(Point{X: 20, Y: 20})
	p.OnPointerUp()

	p.Reset()
	assert.Zero(t, alphaAt(p, 15, 15), "reset must clear drawn pixels")
	assert.True(t, p.Touched(), "KeepTouched leaves the gate open")
	assert.Empty(t, p.Strokes())

	f, ok := submitAndWait(t, p)
	require.True(t, ok)
	img, err := png.Decode(bytes.NewReader(f.Data))
	require.NoError(t, err)
	_, _, _, a := img.At(15, 15).RGBA()
	assert.Zero(t, a, "submitted image should be blank after reset")
}

func TestPadResetClearTouched(t *testing.T) {
	p := newAttachedPad(t, Size{Width: 800, Height: 600}, WithResetPolicy(ClearTouched))
	p.OnPointerDown(Point{X: 10, Y: 10})
	p.OnPointerMove(Point{X: 20, Y: 20})
	p.OnPointerUp()

	p.Reset()
	assert.Zero(t, alphaAt(p, 15, 15))
	assert.False(t, p.Touched())
	assert.ErrorIs(t, p.Submit(nil, nil), ErrNothingDrawn)

	p.OnPointerDown(Point{X: 30, Y: 30})
	p.OnPointerMove(Point{X: 40, Y: 35})
	assert.True(t, p.Touched())
	_, ok := submitAndWait(t, p)
	assert.True(t, ok)
}

func TestPadStrokes(t *testing.T) {
	p := newAttachedPad(t, Size{Width: 800, Height: 600})

	p.OnPointerDown(Point{X: 1, Y: 1})
	p.OnPointerMove(Point{X: 2, Y: 2})
	p.OnPointerMove(Point{X: 3, Y: 5})
	p.OnPointerUp()

	// a press without movement does not produce a stroke
	p.OnPointerDown(Point{X: 50, Y: 50})
	p.OnPointerUp()

	p.OnPointerDown(Point{X: 10, Y: 10})
	p.OnPointerMove(Point{X: 12, Y: 14})

	strokes := p.Strokes()
	require.Len(t, strokes, 2)
	assert.Equal(t, []Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 5}}, strokes[0].Points)
	assert.Equal(t, []Point{{X: 10, Y: 10}, {X: 12, Y: 14}}, strokes[1].Points)
	assert.NotEqual(t, strokes[0].ID, strokes[1].ID)
	assert.Equal(t, DefaultStrokeColor, strokes[0].Color)
	assert.Equal(t, DefaultStrokeWidth, strokes[0].Width)

	strokes[0].Points[0] = Point{X: 99, Y: 99}
	assert.Equal(t, Point{X: 1, Y: 1}, p.Strokes()[0].Points[0], "Strokes must return copies")
}

func TestParseResetPolicy(t *testing.T) {
	assert.Equal(t, ClearTouched, ParseResetPolicy("clear"))
	assert.Equal(t, KeepTouched, ParseResetPolicy("keep"))
	assert.Equal(t, KeepTouched, ParseResetPolicy(""))
	assert.Equal(t, "clear", ClearTouched.String())
	assert.Equal(t, "keep", KeepTouched.String())
}
