package basin

import (
	"image"
	"image/color"
	"math"

	"github.com/san-kum/basins/internal/integrators"
)

// Cell records the outcome for one coordinate. Index is -1 when no
// attractor color was assigned.
type Cell struct {
	Index      int8
	Captured   bool
	Iterations uint16
}

// FieldBuffer is the materialized basin field for one domain and generation.
type FieldBuffer struct {
	Width, Height int
	Generation    uint64
	Profile       integrators.Profile
	Cells         []Cell
	Image         *image.RGBA
}

func newFieldBuffer(domain image.Point, generation uint64, profile integrators.Profile) *FieldBuffer {
	return &FieldBuffer{
		Width:      domain.X,
		Height:     domain.Y,
		Generation: generation,
		Profile:    profile,
		Cells:      make([]Cell, domain.X*domain.Y),
		Image:      image.NewRGBA(image.Rect(0, 0, domain.X, domain.Y)),
	}
}

func (b *FieldBuffer) Size() image.Point {
	return image.Pt(b.Width, b.Height)
}

func (b *FieldBuffer) Cell(x, y int) Cell {
	return b.Cells[y*b.Width+x]
}

func (b *FieldBuffer) ColorAt(x, y int) color.RGBA {
	return b.Image.RGBAAt(x, y)
}

func (b *FieldBuffer) put(x, y int, cell Cell, c color.RGBA) {
	b.Cells[y*b.Width+x] = cell
	b.Image.SetRGBA(x, y, c)
}

func clampIterations(n int) uint16 {
	if n > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(n)
}
