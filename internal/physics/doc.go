// Package physics provides the attractor model and the field it induces.
//
// Attractors are fixed point sources of gravity-like pull, each tagged with a
// display color:
//
//   - [Attractor]: position, color and mass of one source
//   - [AttractorSet]: immutable, length-tagged snapshot of at most
//     [MaxAttractors] sources carrying a generation counter
//   - [Scene]: copy-on-write holder publishing one snapshot at a time
//   - [Acceleration]: net inverse-square pull at a point
//   - [Nearest]: closest attractor by plain Euclidean distance
//
// # Generations
//
// Every constructed set draws a fresh generation from a process-wide
// counter, so caches keyed on the generation never confuse two sets:
//
//	set, err := physics.NewAttractorSet(attractors)
//	if err != nil {
//	    return err
//	}
//	key := set.Generation()
//
// # Binary Layout
//
// [AttractorSet.MarshalBinary] and [DecodeSet] convert a set to and from the
// fixed uniform block consumed by GPU shaders ([BlockSize] bytes).
package physics
