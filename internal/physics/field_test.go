package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/basins/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("Acceleration", func() {
	It("is zero for an empty set", func() {
		set, _ := physics.NewAttractorSet(nil)
		Expect(physics.Acceleration(r2.Vec{X: 3, Y: 4}, set, physics.DefaultEpsilon)).To(Equal(r2.Vec{}))
	})

	It("follows the inverse-square law toward the attractor", func() {
		a := physics.NewAttractor(10, 0, 1, 0, 0)
		a.Mass = 4
		set, _ := physics.NewAttractorSet([]physics.Attractor{a})

		acc := physics.Acceleration(r2.Vec{}, set, physics.DefaultEpsilon)
		Expect(acc.X).To(BeNumerically("~", 4.0/100, 1e-12))
		Expect(acc.Y).To(BeNumerically("~", 0, 1e-12))
	})

	It("sums contributions and cancels symmetric ones", func() {
		set, _ := physics.NewAttractorSet([]physics.Attractor{
			physics.NewAttractor(-5, 0, 1, 0, 0),
			physics.NewAttractor(5, 0, 0, 1, 0),
		})
		acc := physics.Acceleration(r2.Vec{}, set, physics.DefaultEpsilon)
		Expect(r2.Norm(acc)).To(BeNumerically("<", 1e-15))
	})

	It("stays finite at an attractor's exact position", func() {
		set, _ := physics.NewAttractorSet([]physics.Attractor{
			physics.NewAttractor(200, 100, 1, 0, 0),
			physics.NewAttractor(300, 100, 0, 1, 0),
		})
		acc := physics.Acceleration(r2.Vec{X: 200, Y: 100}, set, physics.DefaultEpsilon)
		Expect(math.IsNaN(acc.X) || math.IsInf(acc.X, 0)).To(BeFalse())
		Expect(math.IsNaN(acc.Y) || math.IsInf(acc.Y, 0)).To(BeFalse())
	})

	It("falls back to the default epsilon for a non-positive one", func() {
		set, _ := physics.NewAttractorSet([]physics.Attractor{physics.NewAttractor(1, 1, 1, 0, 0)})
		acc := physics.Acceleration(r2.Vec{X: 1, Y: 1}, set, 0)
		Expect(acc).To(Equal(r2.Vec{}))
	})
})

var _ = Describe("Nearest", func() {
	It("returns -1 for an empty set", func() {
		set, _ := physics.NewAttractorSet(nil)
		Expect(physics.Nearest(r2.Vec{}, set)).To(Equal(-1))
	})

	It("picks the closest attractor", func() {
		set, _ := physics.NewAttractorSet([]physics.Attractor{
			physics.NewAttractor(200, 100, 1, 0, 0),
			physics.NewAttractor(300, 400, 0, 1, 0),
			physics.NewAttractor(450, 50, 0, 0, 1),
		})
		Expect(physics.Nearest(r2.Vec{X: 440, Y: 60}, set)).To(Equal(2))
		Expect(physics.Nearest(r2.Vec{X: 290, Y: 390}, set)).To(Equal(1))
	})

	It("prefers the lower index on ties", func() {
		set, _ := physics.NewAttractorSet([]physics.Attractor{
			physics.NewAttractor(-1, 0, 1, 0, 0),
			physics.NewAttractor(1, 0, 0, 1, 0),
		})
		Expect(physics.Nearest(r2.Vec{}, set)).To(Equal(0))
	})
})
