package confusion

const accuracyEpsilon = 1e-9

// Filter holds the session-scoped display thresholds. The zero value is not the
// default; use DefaultFilter.
type Filter struct {
	MaxAccuracyPercent float64 `json:"max_accuracy_percent"`
	MinConfusions      int     `json:"min_confusions"`
	SingleEdges        bool    `json:"single_edges"`
}

// DefaultFilter returns a Filter that filters nothing.
func DefaultFilter() Filter {
	return Filter{MaxAccuracyPercent: 100}
}

// MinEdgeThreshold returns the pair count a confusion needs to become an edge.
func (f Filter) MinEdgeThreshold() int {
	if f.SingleEdges {
		return 1
	}
	return 2
}

// FilteredClasses returns the records whose accuracy, as a percentage, does not
// exceed maxAccuracyPercent. At 100 or above every record is returned in order.
// Records without samples never match a threshold below 100.
func FilteredClasses(records []ClassRecord, maxAccuracyPercent float64) []ClassRecord {
	if maxAccuracyPercent >= 100 {
		return records
	}
	out := make([]ClassRecord, 0, len(records))
	for _, r := range records {
		if r.Accuracy == nil {
			continue
		}
		if *r.Accuracy*100 <= maxAccuracyPercent+accuracyEpsilon {
			out = append(out, r)
		}
	}
	return out
}

// GraphCandidates returns the indices of classes that have at least one
// cross-confusion, in either direction, of minConfusions or more. When
// minConfusions is not positive every index is returned.
func GraphCandidates(records []ClassRecord, m *Matrix, minConfusions int) []int {
	if minConfusions <= 0 {
		return Indices(records)
	}
	out := make([]int, 0, len(records))
	for _, r := range records {
		maxConf := 0
		for j := 0; j < m.Size(); j++ {
			if j == r.Index {
				continue
			}
			maxConf = max(maxConf, m.At(r.Index, j), m.At(j, r.Index))
		}
		if maxConf >= minConfusions {
			out = append(out, r.Index)
		}
	}
	return out
}
