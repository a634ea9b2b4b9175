package integrators

import (
	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Euler is fixed-step semi-implicit Euler: velocity first, then position
// from the updated velocity.
type Euler struct {
	params   Params
	Observer dynamo.Observer
}

func NewEuler(p Params) *Euler {
	return &Euler{params: p}
}

func (e *Euler) Profile() Profile { return ProfileEuler }

func (e *Euler) Simulate(start r2.Vec, set *physics.AttractorSet) (dynamo.Outcome, error) {
	if set.Empty() {
		return emptySet(start)
	}
	dt := e.params.FixedDt
	s := dynamo.At(start)
	observe(e.Observer, s, 0)

	for s.Iteration < e.params.MaxIterations {
		if idx, _ := capture(s.Pos, set, e.params.CaptureRadius); idx >= 0 {
			return captured(s, idx), nil
		}
		acc := physics.Acceleration(s.Pos, set, e.params.Epsilon)
		s.Vel = r2.Add(s.Vel, r2.Scale(dt, acc))
		s.Pos = r2.Add(s.Pos, r2.Scale(dt, s.Vel))
		s.Iteration++
		observe(e.Observer, s, dt)
	}
	return exhausted(s), nil
}
