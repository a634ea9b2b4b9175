// Package dynamo provides the core primitives shared by the basin pipeline.
//
// The package defines the small set of types every stage agrees on:
//
//   - [State]: position, velocity and iteration count of one test particle
//   - [Outcome]: what a trajectory simulation ended with
//   - [Observer]: hook that receives every committed integrator state
//
// plus the sentinel errors returned across package boundaries.
//
// # Example
//
//	set, _ := physics.NewAttractorSet(attractors)
//	integ, _ := integrators.New(integrators.ProfileRK4, integrators.DefaultParams())
//	out, err := integ.Simulate(r2.Vec{X: 200, Y: 400}, set)
//
// # Thread Safety
//
// State values are ephemeral and owned by a single integrator call; they are
// never shared between goroutines.
package dynamo
