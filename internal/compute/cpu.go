package compute

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// bandsPerWorker oversplits the range so cheap bands (near attractors)
// do not leave workers idle.
const bandsPerWorker = 4

type CPUBackend struct {
	workers int
}

// NewCPUBackend returns a backend running at most workers bands at once;
// workers <= 0 means runtime.NumCPU().
func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string { return fmt.Sprintf("cpu (%d workers)", c.workers) }
func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) Dispatch(ctx context.Context, n int, fn func(start, end int) error) error {
	if n <= 0 {
		return ctx.Err()
	}

	bands := c.workers * bandsPerWorker
	if bands > n {
		bands = n
	}
	chunkSize := (n + bands - 1) / bands

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		s, e := start, end
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(s, e)
		})
	}

	return g.Wait()
}
