package basin_test

import (
	"context"
	"image"
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/basins/internal/basin"
	"github.com/san-kum/basins/internal/compute"
	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/integrators"
	"github.com/san-kum/basins/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func threeBody() *physics.AttractorSet {
	set, err := physics.NewAttractorSet([]physics.Attractor{
		physics.NewAttractor(200, 100, 1, 0, 0),
		physics.NewAttractor(300, 400, 0, 1, 0),
		physics.NewAttractor(450, 50, 0, 0, 1),
	})
	Expect(err).NotTo(HaveOccurred())
	return set
}

func newComputer(profile integrators.Profile, params integrators.Params, opts basin.Options) *basin.Computer {
	integ, err := integrators.New(profile, params)
	Expect(err).NotTo(HaveOccurred())
	return basin.NewComputer(integ, opts)
}

var _ = Describe("Computer", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("colors every coordinate inside the capture radius with that attractor", func() {
		set, _ := physics.NewAttractorSet([]physics.Attractor{physics.NewAttractor(2, 1, 1, 0, 0)})
		c := newComputer(integrators.ProfileRK4, integrators.DefaultParams(), basin.DefaultOptions())

		buf, err := c.Compute(ctx, image.Pt(4, 3), set)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.Size()).To(Equal(image.Pt(4, 3)))
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				Expect(buf.ColorAt(x, y)).To(Equal(red))
				Expect(buf.Cell(x, y)).To(Equal(basin.Cell{Index: 0, Captured: true}))
			}
		}
	})

	It("pins the three-attractor golden cell", func() {
		opts := basin.DefaultOptions()
		opts.View = basin.View{Origin: r2.Vec{X: 200, Y: 400}, Zoom: 1}
		c := newComputer(integrators.ProfileRK4, integrators.DefaultParams(), opts)

		buf, err := c.Compute(ctx, image.Pt(1, 1), threeBody())
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.ColorAt(0, 0)).To(Equal(green))
		Expect(buf.Cell(0, 0)).To(Equal(basin.Cell{Index: 1, Captured: true, Iterations: 1}))
	})

	It("fails explicitly for an empty set", func() {
		set, _ := physics.NewAttractorSet(nil)
		c := newComputer(integrators.ProfileRK4, integrators.DefaultParams(), basin.DefaultOptions())
		_, err := c.Compute(ctx, image.Pt(4, 4), set)
		Expect(err).To(MatchError(dynamo.ErrEmptySet))
	})

	DescribeTable("rejects empty domains",
		func(domain image.Point) {
			c := newComputer(integrators.ProfileNearest, integrators.DefaultParams(), basin.DefaultOptions())
			_, err := c.Compute(ctx, domain, threeBody())
			Expect(err).To(MatchError(dynamo.ErrInvalidDomain))
		},
		Entry("zero width", image.Pt(0, 10)),
		Entry("zero height", image.Pt(10, 0)),
		Entry("negative", image.Pt(-1, -1)),
	)

	Context("caching", func() {
		var (
			c   *basin.Computer
			set *physics.AttractorSet
		)

		BeforeEach(func() {
			c = newComputer(integrators.ProfileNearest, integrators.DefaultParams(), basin.DefaultOptions())
			set = threeBody()
		})

		It("serves an unchanged generation from cache", func() {
			first, err := c.Compute(ctx, image.Pt(32, 24), set)
			Expect(err).NotTo(HaveOccurred())
			pix := append([]byte(nil), first.Image.Pix...)

			second, err := c.Compute(ctx, image.Pt(32, 24), set)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(BeIdenticalTo(first))
			Expect(second.Image.Pix).To(Equal(pix))
			Expect(c.Computations()).To(BeEquivalentTo(1))
		})

		It("recomputes for a new generation", func() {
			_, _ = c.Compute(ctx, image.Pt(8, 8), set)
			next, _ := physics.NewAttractorSet(set.Attractors())
			buf, err := c.Compute(ctx, image.Pt(8, 8), next)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.Generation).To(Equal(next.Generation()))
			Expect(c.Computations()).To(BeEquivalentTo(2))
		})

		It("reallocates on resize", func() {
			_, _ = c.Compute(ctx, image.Pt(8, 8), set)
			buf, err := c.Compute(ctx, image.Pt(5, 3), set)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.Size()).To(Equal(image.Pt(5, 3)))
			Expect(buf.Cells).To(HaveLen(15))
			Expect(c.Computations()).To(BeEquivalentTo(2))
		})

		It("recomputes after Invalidate", func() {
			_, _ = c.Compute(ctx, image.Pt(8, 8), set)
			c.Invalidate()
			Expect(c.Last()).To(BeNil())
			_, _ = c.Compute(ctx, image.Pt(8, 8), set)
			Expect(c.Computations()).To(BeEquivalentTo(2))
		})

		It("keeps the published buffer when a pass is canceled", func() {
			prev, err := c.Compute(ctx, image.Pt(8, 8), set)
			Expect(err).NotTo(HaveOccurred())

			canceled, cancel := context.WithCancel(ctx)
			cancel()
			next, _ := physics.NewAttractorSet(set.Attractors())
			_, err = c.Compute(canceled, image.Pt(8, 8), next)
			Expect(err).To(MatchError(context.Canceled))
			Expect(c.Last()).To(BeIdenticalTo(prev))
			Expect(c.Computations()).To(BeEquivalentTo(1))
		})
	})

	It("produces identical fields regardless of worker count", func() {
		params := integrators.DefaultParams()
		params.MaxIterations = 50
		set := threeBody()

		serial := basin.DefaultOptions()
		serial.Backend = compute.NewCPUBackend(1)
		wide := basin.DefaultOptions()
		wide.Backend = compute.NewCPUBackend(8)

		a, err := newComputer(integrators.ProfileRK4, params, serial).Compute(ctx, image.Pt(24, 20), set)
		Expect(err).NotTo(HaveOccurred())
		b, err := newComputer(integrators.ProfileRK4, params, wide).Compute(ctx, image.Pt(24, 20), set)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Image.Pix).To(Equal(a.Image.Pix))
		Expect(b.Cells).To(Equal(a.Cells))
	})

	Context("fallback", func() {
		var params integrators.Params

		BeforeEach(func() {
			params = integrators.DefaultParams()
			params.CaptureRadius = 1
			params.MaxIterations = 3
		})

		It("uses the nearest attractor at the final position by default", func() {
			set, _ := physics.NewAttractorSet([]physics.Attractor{
				physics.NewAttractor(0, 0, 1, 0, 0),
				physics.NewAttractor(7, 0, 0, 0, 1),
			})
			buf, err := newComputer(integrators.ProfileRK4, params, basin.DefaultOptions()).Compute(ctx, image.Pt(8, 1), set)
			Expect(err).NotTo(HaveOccurred())

			Expect(buf.Cell(0, 0).Captured).To(BeTrue())
			Expect(buf.Cell(2, 0)).To(Equal(basin.Cell{Index: 0, Iterations: 3}))
			Expect(buf.ColorAt(2, 0)).To(Equal(red))
			Expect(buf.Cell(5, 0)).To(Equal(basin.Cell{Index: 1, Iterations: 3}))
			Expect(buf.ColorAt(5, 0)).To(Equal(blue))
		})

		It("writes the sentinel when configured", func() {
			set, _ := physics.NewAttractorSet([]physics.Attractor{physics.NewAttractor(0, 0, 1, 0, 0)})
			opts := basin.DefaultOptions()
			opts.Fallback = basin.FallbackSentinel
			opts.Sentinel = color.RGBA{R: 10, G: 20, B: 30, A: 255}

			buf, err := newComputer(integrators.ProfileRK4, params, opts).Compute(ctx, image.Pt(4, 1), set)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.ColorAt(0, 0)).To(Equal(red))
			Expect(buf.ColorAt(3, 0)).To(Equal(opts.Sentinel))
			Expect(buf.Cell(3, 0).Index).To(BeEquivalentTo(-1))
		})
	})

	It("samples pixel centers when asked", func() {
		set, _ := physics.NewAttractorSet([]physics.Attractor{
			physics.NewAttractor(0, 0, 1, 0, 0),
			physics.NewAttractor(0.9, 0.9, 0, 1, 0),
		})
		corner := newComputer(integrators.ProfileNearest, integrators.DefaultParams(), basin.DefaultOptions())
		opts := basin.DefaultOptions()
		opts.PixelCenter = true
		center := newComputer(integrators.ProfileNearest, integrators.DefaultParams(), opts)

		a, _ := corner.Compute(ctx, image.Pt(1, 1), set)
		b, _ := center.Compute(ctx, image.Pt(1, 1), set)
		Expect(a.ColorAt(0, 0)).To(Equal(red))
		Expect(b.ColorAt(0, 0)).To(Equal(green))
	})

	It("maps pixels through the view zoom", func() {
		opts := basin.DefaultOptions()
		opts.View = basin.View{Origin: r2.Vec{X: 0, Y: 0}, Zoom: 0.01}
		c := newComputer(integrators.ProfileNearest, integrators.DefaultParams(), opts)

		// pixel (4,1) covers world (400,100): closest to blue at (450,50).
		buf, err := c.Compute(ctx, image.Pt(5, 5), threeBody())
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.ColorAt(4, 1)).To(Equal(blue))
		Expect(buf.ColorAt(3, 4)).To(Equal(green))
	})
})
