package index

import (
	"sort"

	"github.com/proseflow/proseflow/internal/model"
)

// Segment is a minimal run of text covered by at least one suggestion.
// Primary decides the visual treatment; Covering retains every overlapping
// suggestion for informational display such as a combined tooltip.
type Segment struct {
	Start    int
	End      int
	Primary  model.Suggestion
	Covering []model.Suggestion
}

// CoveringSegments resolves overlapping suggestions into non-ambiguous
// render segments for the visible range [lo, hi). Interval boundary points
// inside the range are sorted and walked pairwise; for each minimal segment
// the fully-covering suggestion with the lowest priority value wins.
func (ix *Index) CoveringSegments(lo, hi int) []Segment {
	var points []int
	for _, s := range ix.entries {
		if s.End <= lo || s.Start >= hi {
			continue
		}
		points = append(points, clamp(s.Start, lo, hi), clamp(s.End, lo, hi))
	}
	if len(points) == 0 {
		return nil
	}

	sort.Ints(points)
	points = dedupe(points)

	var segments []Segment
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		if a == b {
			continue
		}

		var covering []model.Suggestion
		for _, s := range ix.entries {
			if s.Start <= a && s.End >= b {
				covering = append(covering, s)
			}
		}
		if len(covering) == 0 {
			continue
		}

		primary := covering[0]
		for _, s := range covering[1:] {
			if s.Priority < primary.Priority {
				primary = s
			}
		}

		segments = append(segments, Segment{
			Start:    a,
			End:      b,
			Primary:  primary,
			Covering: covering,
		})
	}

	return segments
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dedupe(sorted []int) []int {
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
