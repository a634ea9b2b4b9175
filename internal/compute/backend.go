package compute

import "context"

type Backend interface {
	Name() string
	Workers() int
	// Dispatch splits [0, n) into disjoint bands and calls fn once per band.
	// It returns after every started call finished; the first error wins.
	Dispatch(ctx context.Context, n int, fn func(start, end int) error) error
}

// Default returns a CPU backend sized to the machine.
func Default() Backend {
	return NewCPUBackend(0)
}
