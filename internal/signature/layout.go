package signature

import "math"

// Size is a width/height pair in device independent units.
type Size struct {
	Width  float32 `json:"width" yaml:"width"`
	Height float32 `json:"height" yaml:"height"`
}

// IsZero reports whether the size covers no area.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Pixels rounds the size to whole pixels, never going below 1x1.
func (s Size) Pixels() (int, int) {
	w := int(math.Round(float64(s.Width)))
	h := int(math.Round(float64(s.Height)))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Layout maps a viewport to the surface size. Percentages are whole numbers
// so that 800x600 lands exactly on 280x180.
type Layout struct {
	Breakpoint     float32 `yaml:"breakpoint"`
	NarrowWidthPct float32 `yaml:"narrowWidthPct"`
	WideWidthPct   float32 `yaml:"wideWidthPct"`
	HeightPct      float32 `yaml:"heightPct"`
}

// DefaultLayout: 90%x30% up to a 700 wide viewport, 35%x30% above it.
func DefaultLayout() Layout {
	return Layout{
		Breakpoint:     700,
		NarrowWidthPct: 90,
		WideWidthPct:   35,
		HeightPct:      30,
	}
}

// SurfaceSize computes the drawing surface size for the given viewport.
func (l Layout) SurfaceSize(viewport Size) Size {
	widthPct := l.WideWidthPct
	if viewport.Width <= l.Breakpoint {
		widthPct = l.NarrowWidthPct
	}
	return Size{
		Width:  viewport.Width * widthPct / 100,
		Height: viewport.Height * l.HeightPct / 100,
	}
}
