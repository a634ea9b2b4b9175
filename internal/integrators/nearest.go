package integrators

import (
	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Nearest skips simulation and assigns the closest attractor by distance.
type Nearest struct{}

func NewNearest() *Nearest {
	return &Nearest{}
}

func (n *Nearest) Profile() Profile { return ProfileNearest }

func (n *Nearest) Simulate(start r2.Vec, set *physics.AttractorSet) (dynamo.Outcome, error) {
	if set.Empty() {
		return emptySet(start)
	}
	return dynamo.Outcome{Index: physics.Nearest(start, set), Captured: true, Final: start}, nil
}
