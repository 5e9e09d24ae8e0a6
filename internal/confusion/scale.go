package confusion

import "math"

// LinearScale maps a numeric domain onto a numeric range.
type LinearScale struct {
	Domain [2]float64 `json:"domain"`
	Range  [2]float64 `json:"range"`
}

// Map returns the range value for v. A degenerate domain maps to the range start.
func (s LinearScale) Map(v float64) float64 {
	span := s.Domain[1] - s.Domain[0]
	if span == 0 {
		return s.Range[0]
	}
	t := (v - s.Domain[0]) / span
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Normalize returns the position of v within the domain, where 0 is the
// domain start and 1 its end.
func (s LinearScale) Normalize(v float64) float64 {
	span := s.Domain[1] - s.Domain[0]
	if span == 0 {
		return 0
	}
	return (v - s.Domain[0]) / span
}

// Edge width range in pixels.
const (
	MinEdgeWidth = 6
	MaxEdgeWidth = 14
)

// RateDomain returns the [min, max] avgRate over edges. When every edge shares
// the same rate the domain collapses to [0, max], or [0, 1] for a zero rate.
func RateDomain(edges []Edge) [2]float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, e := range edges {
		lo = min(lo, e.AvgRate)
		hi = max(hi, e.AvgRate)
	}
	if math.IsInf(lo, 0) {
		lo = 0
	}
	if math.IsInf(hi, 0) {
		hi = 1
	}
	if lo == hi {
		if hi == 0 {
			hi = 1
		}
		return [2]float64{0, hi}
	}
	return [2]float64{lo, hi}
}

// WidthScale returns the edge width scale for a rate domain.
func WidthScale(domain [2]float64) LinearScale {
	return LinearScale{Domain: domain, Range: [2]float64{MinEdgeWidth, MaxEdgeWidth}}
}
