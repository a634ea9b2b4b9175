package analysis

import "github.com/san-kum/basins/internal/basin"

// Histogram counts captured cells by iterations to capture.
type Histogram struct {
	BinWidth int
	Counts   []float64
}

// IterationHistogram buckets captured cells into bins of equal width
// covering [0, maxIterations]. Uncaptured cells are ignored.
func IterationHistogram(buf *basin.FieldBuffer, bins, maxIterations int) Histogram {
	if bins <= 0 {
		bins = 1
	}
	if maxIterations < bins {
		maxIterations = bins
	}
	width := (maxIterations + bins - 1) / bins
	h := Histogram{BinWidth: width, Counts: make([]float64, bins)}
	if buf == nil {
		return h
	}
	for _, c := range buf.Cells {
		if !c.Captured {
			continue
		}
		b := int(c.Iterations) / width
		if b >= bins {
			b = bins - 1
		}
		h.Counts[b]++
	}
	return h
}

func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += int(c)
	}
	return n
}
