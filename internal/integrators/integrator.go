package integrators

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Profile names an integration fidelity.
type Profile string

const (
	ProfileRK4     Profile = "rk4"
	ProfileEuler   Profile = "euler"
	ProfileNearest Profile = "nearest"
)

// Integrator runs one test particle from rest at start until capture or the
// iteration cap. Implementations are safe for concurrent use.
type Integrator interface {
	Profile() Profile
	Simulate(start r2.Vec, set *physics.AttractorSet) (dynamo.Outcome, error)
}

var registry = map[Profile]func(Params) Integrator{
	ProfileRK4:     func(p Params) Integrator { return NewRK4(p) },
	ProfileEuler:   func(p Params) Integrator { return NewEuler(p) },
	ProfileNearest: func(p Params) Integrator { return NewNearest() },
}

// New builds the integrator for profile after validating params.
func New(profile Profile, params Params) (Integrator, error) {
	fn, ok := registry[profile]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownProfile, profile)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return fn(params), nil
}

func ParseProfile(name string) (Profile, error) {
	p := Profile(name)
	if _, ok := registry[p]; !ok {
		return "", fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownProfile, name, Profiles())
	}
	return p, nil
}

// Profiles lists the registered profiles in a stable order.
func Profiles() []Profile {
	out := make([]Profile, 0, len(registry))
	for p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// capture returns the first attractor strictly inside radius, or -1 and the
// minimum squared distance over all attractors.
func capture(p r2.Vec, set *physics.AttractorSet, radius float64) (int, float64) {
	limit := radius * radius
	min := math.Inf(1)
	for i := 0; i < set.Len(); i++ {
		d := r2.Norm2(r2.Sub(set.At(i).Pos(), p))
		if d < limit {
			return i, d
		}
		if d < min {
			min = d
		}
	}
	return dynamo.Uncaptured, min
}

func captured(s dynamo.State, idx int) dynamo.Outcome {
	return dynamo.Outcome{Index: idx, Captured: true, Iterations: s.Iteration, Final: s.Pos}
}

func exhausted(s dynamo.State) dynamo.Outcome {
	return dynamo.Outcome{Index: dynamo.Uncaptured, Iterations: s.Iteration, Final: s.Pos}
}

func emptySet(start r2.Vec) (dynamo.Outcome, error) {
	return dynamo.Outcome{Index: dynamo.Uncaptured, Final: start}, dynamo.ErrEmptySet
}

func observe(o dynamo.Observer, s dynamo.State, dt float64) {
	if o != nil {
		o.OnStep(s, dt)
	}
}
