package confusion

import "slices"

// Segment kinds of a per-class bar.
const (
	SegmentCorrect = "correct"
	SegmentMiss    = "mis"
)

// BarSegment is one slice of a per-class stacked bar.
type BarSegment struct {
	PredIndex int     `json:"pred_index"`
	Count     int     `json:"count"`
	Pct       float64 `json:"pct"`
	Kind      string  `json:"kind"`
}

// BarSegments splits a class row into its correct segment followed by the
// misclassifications ordered by count, largest first. Zero-count
// misclassifications are omitted.
func BarSegments(r ClassRecord) []BarSegment {
	pct := func(count int) float64 {
		if r.Total > 0 {
			return float64(count) / float64(r.Total)
		}
		return 0
	}

	misses := make([]BarSegment, 0, len(r.Row))
	for j, count := range r.Row {
		if j == r.Index || count <= 0 {
			continue
		}
		misses = append(misses, BarSegment{PredIndex: j, Count: count, Pct: pct(count), Kind: SegmentMiss})
	}
	slices.SortStableFunc(misses, func(a, b BarSegment) int {
		return b.Count - a.Count
	})

	out := make([]BarSegment, 0, len(misses)+1)
	out = append(out, BarSegment{PredIndex: r.Index, Count: r.Correct, Pct: pct(r.Correct), Kind: SegmentCorrect})
	return append(out, misses...)
}
