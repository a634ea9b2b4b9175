package physics_test

import (
	"errors"
	"image/color"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/physics"
)

func filled(n int) []physics.Attractor {
	out := make([]physics.Attractor, n)
	for i := range out {
		out[i] = physics.NewAttractor(float32(i*10), float32(i*20), 1, 0, 0)
	}
	return out
}

var _ = Describe("AttractorSet", func() {
	It("accepts up to MaxAttractors", func() {
		set, err := physics.NewAttractorSet(filled(physics.MaxAttractors))
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Len()).To(Equal(physics.MaxAttractors))
	})

	It("rejects sets over capacity", func() {
		_, err := physics.NewAttractorSet(filled(physics.MaxAttractors + 1))
		Expect(err).To(MatchError(dynamo.ErrCapacityExceeded))
	})

	It("reports the index of an invalid attractor", func() {
		attractors := filled(3)
		attractors[2].G = 1.5
		_, err := physics.NewAttractorSet(attractors)
		Expect(err).To(MatchError(dynamo.ErrInvalidAttractor))

		var ae *dynamo.AttractorError
		Expect(errors.As(err, &ae)).To(BeTrue())
		Expect(ae.Index).To(Equal(2))
	})

	DescribeTable("rejects out-of-range fields",
		func(mutate func(*physics.Attractor)) {
			a := physics.NewAttractor(1, 2, 0.5, 0.5, 0.5)
			mutate(&a)
			Expect(a.Validate()).To(MatchError(dynamo.ErrInvalidAttractor))
		},
		Entry("negative mass", func(a *physics.Attractor) { a.Mass = -1 }),
		Entry("NaN position", func(a *physics.Attractor) { a.X = float32(math.NaN()) }),
		Entry("infinite mass", func(a *physics.Attractor) { a.Mass = float32(math.Inf(1)) }),
		Entry("negative color", func(a *physics.Attractor) { a.R = -0.1 }),
		Entry("NaN color", func(a *physics.Attractor) { a.B = float32(math.NaN()) }),
	)

	It("copies its input", func() {
		attractors := filled(2)
		set, err := physics.NewAttractorSet(attractors)
		Expect(err).NotTo(HaveOccurred())
		attractors[0].X = 999
		Expect(set.At(0).X).To(BeEquivalentTo(0))

		out := set.Attractors()
		out[1].Y = 999
		Expect(set.At(1).Y).To(BeEquivalentTo(20))
	})

	It("gives every set a fresh, increasing generation", func() {
		a, _ := physics.NewAttractorSet(filled(1))
		b, _ := physics.NewAttractorSet(filled(1))
		Expect(b.Generation()).To(BeNumerically(">", a.Generation()))
	})

	It("converts colors to opaque RGBA", func() {
		a := physics.NewAttractor(0, 0, 1, 0.5, 0)
		Expect(a.RGBA()).To(Equal(color.RGBA{R: 255, G: 128, B: 0, A: 255}))
	})
})

var _ = Describe("Scene", func() {
	It("keeps the previous snapshot when an update is rejected", func() {
		scene, err := physics.NewScene(filled(2))
		Expect(err).NotTo(HaveOccurred())
		before := scene.Snapshot()

		_, err = scene.Update(filled(physics.MaxAttractors + 1))
		Expect(err).To(MatchError(dynamo.ErrCapacityExceeded))
		Expect(scene.Snapshot()).To(BeIdenticalTo(before))
	})

	It("publishes a new generation on every update", func() {
		scene, _ := physics.NewScene(filled(2))
		g0 := scene.Snapshot().Generation()
		set, err := scene.Update(filled(3))
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Generation()).To(BeNumerically(">", g0))
		Expect(scene.Snapshot().Len()).To(Equal(3))
	})

	It("applies concurrent edits without losing any", func() {
		scene, _ := physics.NewScene(filled(1))
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				_, err := scene.Edit(func(a []physics.Attractor) []physics.Attractor {
					a[0].X++
					return a
				})
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		wg.Wait()
		Expect(scene.Snapshot().At(0).X).To(BeEquivalentTo(16))
	})
})
