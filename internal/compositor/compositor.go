// Package compositor turns a basin field into a displayable frame.
package compositor

import (
	"fmt"
	"image"

	"github.com/san-kum/basins/internal/basin"
	"github.com/san-kum/basins/internal/dynamo"
	"golang.org/x/image/draw"
)

// Filter selects how a field is resampled to a different viewport.
type Filter string

const (
	FilterNearest Filter = "nearest"
	FilterLinear  Filter = "linear"
)

func ParseFilter(name string) (Filter, error) {
	switch f := Filter(name); f {
	case FilterNearest, FilterLinear:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (available: nearest, linear)", dynamo.ErrUnknownFilter, name)
}

type Compositor struct {
	filter Filter
	scaler draw.Scaler
}

func New(filter Filter) (*Compositor, error) {
	c := &Compositor{filter: filter}
	switch filter {
	case FilterNearest:
		c.scaler = draw.NearestNeighbor
	case FilterLinear:
		c.scaler = draw.BiLinear
	default:
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownFilter, filter)
	}
	return c, nil
}

func (c *Compositor) Filter() Filter { return c.filter }

// Present produces a frame of viewport size from buf. Matching sizes pass
// through as a copy; buf is never modified.
func (c *Compositor) Present(buf *basin.FieldBuffer, viewport image.Point) (*image.RGBA, error) {
	if buf == nil || buf.Image == nil {
		return nil, fmt.Errorf("compositor: no field to present")
	}
	if viewport.X <= 0 || viewport.Y <= 0 {
		return nil, fmt.Errorf("%w: viewport %dx%d", dynamo.ErrInvalidDomain, viewport.X, viewport.Y)
	}

	frame := image.NewRGBA(image.Rect(0, 0, viewport.X, viewport.Y))
	if buf.Size() == viewport {
		copy(frame.Pix, buf.Image.Pix)
		return frame, nil
	}
	c.scaler.Scale(frame, frame.Bounds(), buf.Image, buf.Image.Bounds(), draw.Src, nil)
	return frame, nil
}
