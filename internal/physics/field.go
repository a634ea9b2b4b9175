package physics

import "gonum.org/v1/gonum/spatial/r2"

// DefaultEpsilon is the distance floor applied before any division.
const DefaultEpsilon = 1e-6

// Acceleration returns the net pull at p: the sum over attractors of
// mass * (a - p) / d³, with d clamped to eps.
func Acceleration(p r2.Vec, set *AttractorSet, eps float64) r2.Vec {
	var acc r2.Vec
	if set == nil {
		return acc
	}
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	for _, a := range set.attractors {
		d := r2.Sub(a.Pos(), p)
		dist := r2.Norm(d)
		if dist < eps {
			dist = eps
		}
		acc = r2.Add(acc, r2.Scale(float64(a.Mass)/(dist*dist*dist), d))
	}
	return acc
}

// Nearest returns the index of the closest attractor, the lowest index on
// ties, or -1 for an empty set.
func Nearest(p r2.Vec, set *AttractorSet) int {
	closest, min := -1, 0.0
	if set == nil {
		return closest
	}
	for i, a := range set.attractors {
		if d := r2.Norm2(r2.Sub(a.Pos(), p)); closest < 0 || d < min {
			closest, min = i, d
		}
	}
	return closest
}
