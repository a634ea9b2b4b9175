package integrators

import (
	"fmt"

	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/physics"
)

const (
	DefaultMaxIterations = 1000
	DefaultCaptureRadius = 100.0
	DefaultMinDt         = 0.002
	DefaultMaxDt         = 0.05
	DefaultStepScale     = 0.1
	DefaultFixedDt       = 0.01
)

// Params bounds a trajectory simulation.
type Params struct {
	MaxIterations int
	CaptureRadius float64
	// Adaptive step: dt = clamp(distance * StepScale, MinDt, MaxDt).
	MinDt     float64
	MaxDt     float64
	StepScale float64
	// Step of the fixed-step profile.
	FixedDt float64
	Epsilon float64
}

func DefaultParams() Params {
	return Params{
		MaxIterations: DefaultMaxIterations,
		CaptureRadius: DefaultCaptureRadius,
		MinDt:         DefaultMinDt,
		MaxDt:         DefaultMaxDt,
		StepScale:     DefaultStepScale,
		FixedDt:       DefaultFixedDt,
		Epsilon:       physics.DefaultEpsilon,
	}
}

func (p Params) Validate() error {
	switch {
	case p.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations %d", dynamo.ErrInvalidParams, p.MaxIterations)
	case !(p.CaptureRadius > 0):
		return fmt.Errorf("%w: capture radius %g", dynamo.ErrInvalidParams, p.CaptureRadius)
	case !(p.MinDt > 0) || !(p.MaxDt >= p.MinDt):
		return fmt.Errorf("%w: step bounds [%g, %g]", dynamo.ErrInvalidParams, p.MinDt, p.MaxDt)
	case !(p.StepScale > 0):
		return fmt.Errorf("%w: step scale %g", dynamo.ErrInvalidParams, p.StepScale)
	case !(p.FixedDt > 0):
		return fmt.Errorf("%w: fixed dt %g", dynamo.ErrInvalidParams, p.FixedDt)
	case !(p.Epsilon > 0):
		return fmt.Errorf("%w: epsilon %g", dynamo.ErrInvalidParams, p.Epsilon)
	}
	return nil
}
