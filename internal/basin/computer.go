package basin

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/basins/internal/compute"
	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/integrators"
	"github.com/san-kum/basins/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// View maps output pixels to world coordinates:
// world = Origin + (pixel + offset) / Zoom.
type View struct {
	Origin r2.Vec
	Zoom   float64
}

func IdentityView() View {
	return View{Zoom: 1}
}

type Options struct {
	Fallback Fallback
	Sentinel color.RGBA
	// PixelCenter samples at pixel centers (+0.5) instead of corners.
	PixelCenter bool
	View        View
	Backend     compute.Backend
	Logger      *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Fallback: FallbackNearest,
		Sentinel: color.RGBA{A: 0xff},
		View:     IdentityView(),
		Backend:  compute.Default(),
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// Computer runs basin passes and caches the last one. Compute calls are
// serialized; each pass fans out over the backend.
type Computer struct {
	integ integrators.Integrator
	opts  Options

	mu           sync.Mutex
	last         *FieldBuffer
	computations atomic.Int64
}

func NewComputer(integ integrators.Integrator, opts Options) *Computer {
	def := DefaultOptions()
	if opts.Backend == nil {
		opts.Backend = def.Backend
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	if opts.Fallback == "" {
		opts.Fallback = def.Fallback
	}
	if !(opts.View.Zoom > 0) {
		opts.View.Zoom = 1
	}
	return &Computer{integ: integ, opts: opts}
}

func (c *Computer) Profile() integrators.Profile { return c.integ.Profile() }

// Computations reports how many passes actually ran.
func (c *Computer) Computations() int64 { return c.computations.Load() }

// Last returns the most recently published buffer, or nil.
func (c *Computer) Last() *FieldBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Invalidate drops the cached buffer.
func (c *Computer) Invalidate() {
	c.mu.Lock()
	c.last = nil
	c.mu.Unlock()
}

// Compute returns the basin field of set over domain. An unchanged domain
// and generation is served from cache. A failed or canceled pass leaves the
// previously published buffer in place.
func (c *Computer) Compute(ctx context.Context, domain image.Point, set *physics.AttractorSet) (*FieldBuffer, error) {
	if domain.X <= 0 || domain.Y <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", dynamo.ErrInvalidDomain, domain.X, domain.Y)
	}
	if set.Empty() {
		return nil, dynamo.ErrEmptySet
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last != nil && c.last.Size() == domain && c.last.Generation == set.Generation() {
		c.opts.Logger.Debug("field cache hit", "generation", set.Generation(), "width", domain.X, "height", domain.Y)
		return c.last, nil
	}
	if c.last != nil && c.last.Size() != domain {
		c.last = nil
	}

	start := time.Now()
	buf, captured, err := c.run(ctx, domain, set)
	if err != nil {
		return nil, err
	}
	c.last = buf
	c.computations.Add(1)

	c.opts.Logger.Debug("field computed",
		"generation", buf.Generation,
		"profile", buf.Profile,
		"width", domain.X,
		"height", domain.Y,
		"captured", captured,
		"backend", c.opts.Backend.Name(),
		"elapsed", time.Since(start),
	)
	return buf, nil
}

func (c *Computer) run(ctx context.Context, domain image.Point, set *physics.AttractorSet) (*FieldBuffer, int64, error) {
	buf := newFieldBuffer(domain, set.Generation(), c.integ.Profile())
	offset := 0.0
	if c.opts.PixelCenter {
		offset = 0.5
	}
	view := c.opts.View

	var captured atomic.Int64
	err := c.opts.Backend.Dispatch(ctx, domain.Y, func(startRow, endRow int) error {
		var n int64
		for y := startRow; y < endRow; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < domain.X; x++ {
				p := r2.Vec{
					X: view.Origin.X + (float64(x)+offset)/view.Zoom,
					Y: view.Origin.Y + (float64(y)+offset)/view.Zoom,
				}
				out, err := c.integ.Simulate(p, set)
				if err != nil {
					return fmt.Errorf("cell (%d,%d): %w", x, y, err)
				}
				if out.Captured {
					n++
				}
				cell, col := c.resolve(out, set)
				buf.put(x, y, cell, col)
			}
		}
		captured.Add(n)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return buf, captured.Load(), nil
}
