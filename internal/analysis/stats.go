package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/basins/internal/basin"
	"github.com/san-kum/basins/internal/physics"
)

// Share is the part of the field attributed to one attractor.
type Share struct {
	Index          int     `json:"index" csv:"index"`
	X              float32 `json:"x" csv:"x"`
	Y              float32 `json:"y" csv:"y"`
	Pixels         int     `json:"pixels" csv:"pixels"`
	Captured       int     `json:"captured" csv:"captured"`
	Fraction       float64 `json:"fraction" csv:"fraction"`
	MeanIterations float64 `json:"mean_iterations" csv:"mean_iterations"`
}

type Summary struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Generation uint64  `json:"generation"`
	Profile    string  `json:"profile"`
	Pixels     int     `json:"pixels"`
	Captured   int     `json:"captured"`
	Uncaptured int     `json:"uncaptured"`
	Unassigned int     `json:"unassigned"`
	MaxIter    int     `json:"max_iterations"`
	MeanIter   float64 `json:"mean_iterations"`
	Shares     []Share `json:"shares"`
}

// Summarize walks every cell of buf. Shares are reported for every
// attractor in set, including those with no pixels.
func Summarize(buf *basin.FieldBuffer, set *physics.AttractorSet) Summary {
	s := Summary{}
	if buf == nil {
		return s
	}
	s.Width, s.Height = buf.Width, buf.Height
	s.Generation = buf.Generation
	s.Profile = string(buf.Profile)
	s.Pixels = len(buf.Cells)

	n := set.Len()
	s.Shares = make([]Share, n)
	iters := make([]int, n)
	for i := range s.Shares {
		a := set.At(i)
		s.Shares[i] = Share{Index: i, X: a.X, Y: a.Y}
	}

	total := 0
	for _, c := range buf.Cells {
		it := int(c.Iterations)
		total += it
		if it > s.MaxIter {
			s.MaxIter = it
		}
		if c.Captured {
			s.Captured++
		} else {
			s.Uncaptured++
		}
		idx := int(c.Index)
		if idx < 0 || idx >= n {
			s.Unassigned++
			continue
		}
		s.Shares[idx].Pixels++
		if c.Captured {
			s.Shares[idx].Captured++
			iters[idx] += it
		}
	}

	if s.Pixels > 0 {
		s.MeanIter = float64(total) / float64(s.Pixels)
	}
	for i := range s.Shares {
		if s.Pixels > 0 {
			s.Shares[i].Fraction = float64(s.Shares[i].Pixels) / float64(s.Pixels)
		}
		if s.Shares[i].Captured > 0 {
			s.Shares[i].MeanIterations = float64(iters[i]) / float64(s.Shares[i].Captured)
		}
	}
	return s
}

// CaptureRate is the fraction of pixels whose trajectory was captured.
func (s Summary) CaptureRate() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.Captured) / float64(s.Pixels)
}

// Dominant returns the share with the most pixels; ties go to the lower index.
func (s Summary) Dominant() (Share, bool) {
	if len(s.Shares) == 0 {
		return Share{}, false
	}
	best := s.Shares[0]
	for _, sh := range s.Shares[1:] {
		if sh.Pixels > best.Pixels {
			best = sh
		}
	}
	return best, true
}

// Ranked returns shares ordered by pixel count, largest first.
func (s Summary) Ranked() []Share {
	out := make([]Share, len(s.Shares))
	copy(out, s.Shares)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pixels > out[j].Pixels })
	return out
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d gen=%d profile=%s captured=%d/%d (%.1f%%) mean_iter=%.1f max_iter=%d\n",
		s.Width, s.Height, s.Generation, s.Profile,
		s.Captured, s.Pixels, 100*s.CaptureRate(), s.MeanIter, s.MaxIter)
	for _, sh := range s.Shares {
		fmt.Fprintf(&sb, "  [%d] (%.1f, %.1f) %6.2f%%  captured=%d mean_iter=%.1f\n",
			sh.Index, sh.X, sh.Y, 100*sh.Fraction, sh.Captured, sh.MeanIterations)
	}
	return sb.String()
}
