package physics

import (
	"fmt"
	"image/color"
	"math"
	"sync/atomic"

	"github.com/san-kum/basins/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// MaxAttractors is the capacity of an AttractorSet.
const MaxAttractors = 32

// Attractor is a fixed point source of pull. Color channels are in [0,1].
type Attractor struct {
	X, Y    float32
	R, G, B float32
	Mass    float32
}

// NewAttractor returns a unit-mass attractor.
func NewAttractor(x, y, r, g, b float32) Attractor {
	return Attractor{X: x, Y: y, R: r, G: g, B: b, Mass: 1}
}

func (a Attractor) Pos() r2.Vec {
	return r2.Vec{X: float64(a.X), Y: float64(a.Y)}
}

// RGBA returns the display color, fully opaque.
func (a Attractor) RGBA() color.RGBA {
	return color.RGBA{R: channel(a.R), G: channel(a.G), B: channel(a.B), A: 0xff}
}

func channel(v float32) uint8 {
	return uint8(math.Round(float64(v) * 255))
}

// Validate reports fields outside their valid range.
func (a Attractor) Validate() error {
	for _, v := range []float32{a.X, a.Y, a.Mass} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("%w: non-finite position or mass", dynamo.ErrInvalidAttractor)
		}
	}
	if a.Mass < 0 {
		return fmt.Errorf("%w: negative mass %g", dynamo.ErrInvalidAttractor, a.Mass)
	}
	for _, c := range []float32{a.R, a.G, a.B} {
		if !(c >= 0 && c <= 1) {
			return fmt.Errorf("%w: color channel %g outside [0,1]", dynamo.ErrInvalidAttractor, c)
		}
	}
	return nil
}

var generations atomic.Uint64

// AttractorSet is an immutable, ordered snapshot of attractors. Order sets
// tie-break priority: the lowest index wins.
type AttractorSet struct {
	attractors []Attractor
	generation uint64
}

// NewAttractorSet validates and copies attractors into a new snapshot with a
// fresh generation.
func NewAttractorSet(attractors []Attractor) (*AttractorSet, error) {
	if len(attractors) > MaxAttractors {
		return nil, fmt.Errorf("%w: %d attractors, capacity %d", dynamo.ErrCapacityExceeded, len(attractors), MaxAttractors)
	}
	for i, a := range attractors {
		if err := a.Validate(); err != nil {
			return nil, &dynamo.AttractorError{Index: i, Reason: "rejected", Wrapped: err}
		}
	}
	own := make([]Attractor, len(attractors))
	copy(own, attractors)
	return &AttractorSet{attractors: own, generation: generations.Add(1)}, nil
}

// Len returns the active count.
func (s *AttractorSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.attractors)
}

func (s *AttractorSet) Empty() bool { return s.Len() == 0 }

func (s *AttractorSet) At(i int) Attractor {
	return s.attractors[i]
}

// Attractors returns a copy of the active attractors.
func (s *AttractorSet) Attractors() []Attractor {
	out := make([]Attractor, s.Len())
	if s != nil {
		copy(out, s.attractors)
	}
	return out
}

func (s *AttractorSet) Generation() uint64 {
	if s == nil {
		return 0
	}
	return s.generation
}
