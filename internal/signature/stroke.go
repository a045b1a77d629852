package signature

import (
	"math"

	"github.com/google/uuid"
)

// Point is a coordinate relative to the surface's top-left corner.
type Point struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
}

// Defined reports whether both coordinates are finite numbers. Zero is a
// valid coordinate.
func (p Point) Defined() bool {
	return finite(p.X) && finite(p.Y)
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Stroke is the vector record of one press-move-release run.
type Stroke struct {
	ID     string  `json:"id" yaml:"id"`
	Points []Point `json:"points" yaml:"points"`
	Color  string  `json:"color" yaml:"color"`
	Width  float64 `json:"width" yaml:"width"`
}

func newStroke(start Point, color string, width float64) *Stroke {
	return &Stroke{
		ID:     uuid.NewString(),
		Points: []Point{start},
		Color:  color,
		Width:  width,
	}
}

func (s Stroke) clone() Stroke {
	s.Points = append([]Point(nil), s.Points...)
	return s
}
