package physics_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/basins/internal/dynamo"
	"github.com/san-kum/basins/internal/physics"
)

var _ = Describe("Binary layout", func() {
	var set *physics.AttractorSet

	BeforeEach(func() {
		a := physics.NewAttractor(200.25, 100.5, 1, 0.25, 0.125)
		a.Mass = 3.5
		b := physics.NewAttractor(-7, 1e6, 0, 1, 0)
		var err error
		set, err = physics.NewAttractorSet([]physics.Attractor{a, b})
		Expect(err).NotTo(HaveOccurred())
	})

	It("writes a fixed-size block with the count after the slots", func() {
		data, err := set.MarshalBinary()
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(HaveLen(physics.BlockSize))
		Expect(physics.BlockSize).To(Equal(1040))
		Expect(binary.LittleEndian.Uint32(data[1024:])).To(BeEquivalentTo(2))
	})

	It("round-trips exactly", func() {
		data, _ := set.MarshalBinary()
		decoded, err := physics.DecodeSet(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Attractors()).To(Equal(set.Attractors()))
		Expect(decoded.Generation()).NotTo(Equal(set.Generation()))
	})

	It("ignores slots past the active count", func() {
		data, _ := set.MarshalBinary()
		for i := 2 * 32; i < 1024; i++ {
			data[i] = 0xff
		}
		decoded, err := physics.DecodeSet(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Len()).To(Equal(2))
	})

	It("rejects short blocks", func() {
		_, err := physics.DecodeSet(make([]byte, 100))
		Expect(err).To(MatchError(dynamo.ErrInvalidLayout))
	})

	It("rejects counts above capacity", func() {
		data, _ := set.MarshalBinary()
		binary.LittleEndian.PutUint32(data[1024:], 33)
		_, err := physics.DecodeSet(data)
		Expect(err).To(MatchError(dynamo.ErrCapacityExceeded))
	})
})
