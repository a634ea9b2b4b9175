package integrators

import (
	"math"

	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// RK4 is classic fourth-order Runge-Kutta with a step chosen per iteration
// from the distance to the closest attractor.
type RK4 struct {
	params   Params
	Observer dynamo.Observer
}

func NewRK4(p Params) *RK4 {
	return &RK4{params: p}
}

func (r *RK4) Profile() Profile { return ProfileRK4 }

func (r *RK4) Simulate(start r2.Vec, set *physics.AttractorSet) (dynamo.Outcome, error) {
	if set.Empty() {
		return emptySet(start)
	}
	s := dynamo.At(start)
	observe(r.Observer, s, 0)

	for s.Iteration < r.params.MaxIterations {
		idx, minD2 := capture(s.Pos, set, r.params.CaptureRadius)
		if idx >= 0 {
			return captured(s, idx), nil
		}
		dt := r.stepSize(minD2)
		s = r.Step(s, set, dt)
		s.Iteration++
		observe(r.Observer, s, dt)
	}
	return exhausted(s), nil
}

func (r *RK4) stepSize(minD2 float64) float64 {
	return math.Min(math.Max(math.Sqrt(minD2)*r.params.StepScale, r.params.MinDt), r.params.MaxDt)
}

// Step advances the state by one RK4 step of size dt. The iteration count is
// left to the caller.
func (r *RK4) Step(s dynamo.State, set *physics.AttractorSet, dt float64) dynamo.State {
	eps := r.params.Epsilon
	half := dt * 0.5

	k1p := s.Vel
	k1v := physics.Acceleration(s.Pos, set, eps)

	k2p := r2.Add(s.Vel, r2.Scale(half, k1v))
	k2v := physics.Acceleration(r2.Add(s.Pos, r2.Scale(half, k1p)), set, eps)

	k3p := r2.Add(s.Vel, r2.Scale(half, k2v))
	k3v := physics.Acceleration(r2.Add(s.Pos, r2.Scale(half, k2p)), set, eps)

	k4p := r2.Add(s.Vel, r2.Scale(dt, k3v))
	k4v := physics.Acceleration(r2.Add(s.Pos, r2.Scale(dt, k3p)), set, eps)

	dt6 := dt / 6.0
	s.Pos = r2.Add(s.Pos, r2.Scale(dt6, weigh(k1p, k2p, k3p, k4p)))
	s.Vel = r2.Add(s.Vel, r2.Scale(dt6, weigh(k1v, k2v, k3v, k4v)))
	return s
}

// weigh combines the four samples 1:2:2:1.
func weigh(k1, k2, k3, k4 r2.Vec) r2.Vec {
	return r2.Vec{
		X: k1.X + 2*k2.X + 2*k3.X + k4.X,
		Y: k1.Y + 2*k2.Y + 2*k3.Y + k4.Y,
	}
}
