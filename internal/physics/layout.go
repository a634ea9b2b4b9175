package physics

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/san-kum/basins/internal/dynamo"
)

// Uniform block layout. Each slot is 16-byte aligned:
//
//	0  r g b _
//	16 x y mass _
//
// followed by the active count and 12 bytes of padding.
const (
	slotSize    = 32
	countOffset = MaxAttractors * slotSize
	BlockSize   = countOffset + 16
)

// MarshalBinary encodes the set as a little-endian uniform block. Unused
// slots are zero.
func (s *AttractorSet) MarshalBinary() ([]byte, error) {
	buf := make([]byte, BlockSize)
	for i, a := range s.Attractors() {
		slot := buf[i*slotSize:]
		putFloat(slot[0:], a.R)
		putFloat(slot[4:], a.G)
		putFloat(slot[8:], a.B)
		putFloat(slot[16:], a.X)
		putFloat(slot[20:], a.Y)
		putFloat(slot[24:], a.Mass)
	}
	binary.LittleEndian.PutUint32(buf[countOffset:], uint32(s.Len()))
	return buf, nil
}

// DecodeSet reads a uniform block written by MarshalBinary. Slots past the
// active count are never read. The decoded set gets a new generation.
func DecodeSet(data []byte) (*AttractorSet, error) {
	if len(data) != BlockSize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", dynamo.ErrInvalidLayout, len(data), BlockSize)
	}
	n := binary.LittleEndian.Uint32(data[countOffset:])
	if n > MaxAttractors {
		return nil, fmt.Errorf("%w: count %d: %w", dynamo.ErrInvalidLayout, n, dynamo.ErrCapacityExceeded)
	}
	attractors := make([]Attractor, n)
	for i := range attractors {
		slot := data[i*slotSize:]
		attractors[i] = Attractor{
			R:    getFloat(slot[0:]),
			G:    getFloat(slot[4:]),
			B:    getFloat(slot[8:]),
			X:    getFloat(slot[16:]),
			Y:    getFloat(slot[20:]),
			Mass: getFloat(slot[24:]),
		}
	}
	return NewAttractorSet(attractors)
}

func putFloat(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func getFloat(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
