// Package compute provides the dispatch backends that run a data-parallel
// pass over an index range.
//
// The only backend is [CPUBackend], a bounded pool of goroutines:
//
//	backend := compute.Default()
//	err := backend.Dispatch(ctx, height, func(start, end int) error {
//	    for y := start; y < end; y++ {
//	        // rows [start, end) belong to this task alone
//	    }
//	    return nil
//	})
//
// Bands handed to the callback never overlap, so tasks need no locking as
// long as each writes only to its own band.
package compute
