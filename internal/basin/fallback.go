package basin

import (
	"fmt"
	"image/color"

	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/physics"
)

// Fallback decides the color of a coordinate whose particle was never
// captured within the iteration cap.
type Fallback string

const (
	// FallbackNearest uses the attractor nearest to the final position.
	FallbackNearest Fallback = "nearest"
	// FallbackSentinel uses a fixed sentinel color.
	FallbackSentinel Fallback = "sentinel"
)

func ParseFallback(name string) (Fallback, error) {
	switch f := Fallback(name); f {
	case FallbackNearest, FallbackSentinel:
		return f, nil
	}
	return "", fmt.Errorf("unknown fallback %q (available: nearest, sentinel)", name)
}

// resolve turns an outcome into the cell and color written to the buffer.
func (c *Computer) resolve(out dynamo.Outcome, set *physics.AttractorSet) (Cell, color.RGBA) {
	iters := clampIterations(out.Iterations)
	if out.Captured {
		return Cell{Index: int8(out.Index), Captured: true, Iterations: iters}, set.At(out.Index).RGBA()
	}
	if c.opts.Fallback == FallbackSentinel {
		return Cell{Index: dynamo.Uncaptured, Iterations: iters}, c.opts.Sentinel
	}
	idx := physics.Nearest(out.Final, set)
	return Cell{Index: int8(idx), Iterations: iters}, set.At(idx).RGBA()
}
