package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/basins/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestEulerFirstStep(t *testing.T) {
	set := mustSet(t, attractor(0, 0, red, 1e4))
	var states []dynamo.State
	var steps []float64
	integ := NewEuler(DefaultParams())
	integ.Observer = dynamo.ObserverFunc(func(s dynamo.State, dt float64) {
		states = append(states, s)
		steps = append(steps, dt)
	})

	if _, err := integ.Simulate(r2.Vec{X: 200}, set); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if len(states) < 2 {
		t.Fatalf("expected at least one step, got %d states", len(states))
	}

	// a = -1e4/200² = -0.25; v = a*dt; x = 200 + v*dt
	wantV := -0.25 * DefaultFixedDt
	wantX := 200 + wantV*DefaultFixedDt
	if math.Abs(states[1].Vel.X-wantV) > 1e-15 || math.Abs(states[1].Pos.X-wantX) > 1e-12 {
		t.Errorf("unexpected first step: %+v", states[1])
	}
	for i, dt := range steps[1:] {
		if dt != DefaultFixedDt {
			t.Fatalf("step %d used dt %g", i+1, dt)
		}
	}
}

func TestEulerCapture(t *testing.T) {
	out, err := NewEuler(DefaultParams()).Simulate(r2.Vec{X: 200, Y: 100}, threeBody(t))
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !out.Captured || out.Index != 0 || out.Iterations != 0 {
		t.Errorf("expected immediate capture by 0, got %v", out)
	}
}

func TestEulerExhausted(t *testing.T) {
	set := mustSet(t, attractor(0, 0, red, 1))
	out, err := NewEuler(DefaultParams()).Simulate(r2.Vec{X: 800, Y: 800}, set)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if out.Captured || out.Iterations != DefaultMaxIterations {
		t.Errorf("expected exhaustion, got %v", out)
	}
}
