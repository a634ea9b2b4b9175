// Package basin computes basin-of-attraction fields.
//
// A [Computer] releases one test particle per output coordinate, runs the
// configured integrator on each independently and records which attractor
// caught it in a [FieldBuffer]. Passes are cached on the domain size and the
// attractor generation:
//
//	c := basin.NewComputer(integ, basin.DefaultOptions())
//	buf, err := c.Compute(ctx, image.Pt(640, 480), scene.Snapshot())
//
// A buffer is published only once every row is written; callers never see a
// partial pass. Buffers are shared with the cache and must be treated as
// read-only.
package basin
