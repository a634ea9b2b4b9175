package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// State is the ephemeral state of one test particle during a simulation.
type State struct {
	Pos       r2.Vec
	Vel       r2.Vec
	Iteration int
}

// At returns a particle at rest at p.
func At(p r2.Vec) State {
	return State{Pos: p}
}

func (s State) IsValid() bool {
	return finite(s.Pos.X) && finite(s.Pos.Y) && finite(s.Vel.X) && finite(s.Vel.Y)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Uncaptured is the Outcome index for a trajectory that was never captured.
const Uncaptured = -1

// Outcome reports how a trajectory ended.
type Outcome struct {
	Index      int
	Captured   bool
	Iterations int
	Final      r2.Vec
}

func (o Outcome) String() string {
	if !o.Captured {
		return fmt.Sprintf("uncaptured after %d iterations at (%.3f, %.3f)", o.Iterations, o.Final.X, o.Final.Y)
	}
	return fmt.Sprintf("captured by %d after %d iterations", o.Index, o.Iterations)
}

// Observer receives every state an integrator commits, including the
// initial one.
type Observer interface {
	OnStep(s State, dt float64)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(s State, dt float64)

func (f ObserverFunc) OnStep(s State, dt float64) { f(s, dt) }
