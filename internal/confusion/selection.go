package confusion

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Selection is an immutable set of class indices bounded by the class count.
// Every mutation returns a new Selection.
type Selection struct {
	size    int
	members map[int]struct{}
}

// NewSelection returns an empty selection over size classes.
func NewSelection(size int) Selection {
	return Selection{size: size, members: map[int]struct{}{}}
}

// Size returns the number of classes the selection ranges over.
func (s Selection) Size() int {
	return s.size
}

// Len returns the number of selected classes.
func (s Selection) Len() int {
	return len(s.members)
}

// Has reports whether index is selected.
func (s Selection) Has(index int) bool {
	_, ok := s.members[index]
	return ok
}

// Indices returns the selected indices in ascending order.
func (s Selection) Indices() []int {
	out := make([]int, 0, len(s.members))
	for i := range s.members {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// Toggle flips membership of index.
func (s Selection) Toggle(index int) (Selection, error) {
	if err := s.check(index); err != nil {
		return s, err
	}
	next := s.clone()
	if next.Has(index) {
		delete(next.members, index)
	} else {
		next.members[index] = struct{}{}
	}
	return next, nil
}

// Set replaces the selection wholesale.
func (s Selection) Set(indices []int) (Selection, error) {
	next := NewSelection(s.size)
	for _, i := range indices {
		if err := s.check(i); err != nil {
			return s, err
		}
		next.members[i] = struct{}{}
	}
	return next, nil
}

// All selects every class.
func (s Selection) All() Selection {
	next := NewSelection(s.size)
	for i := 0; i < s.size; i++ {
		next.members[i] = struct{}{}
	}
	return next
}

// Clear empties the selection.
func (s Selection) Clear() Selection {
	return NewSelection(s.size)
}

// Visible replaces the selection with the currently filtered classes.
func (s Selection) Visible(filtered []ClassRecord) (Selection, error) {
	return s.Set(Indices(filtered))
}

func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Indices())
}

func (s Selection) check(index int) error {
	if index < 0 || index >= s.size {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, s.size)
	}
	return nil
}

func (s Selection) clone() Selection {
	next := NewSelection(s.size)
	for i := range s.members {
		next.members[i] = struct{}{}
	}
	return next
}

// Average is the mean accuracy over the eligible classes of a subset.
// Avg is nil when no class was eligible.
type Average struct {
	Avg   *float64 `json:"avg"`
	Count int      `json:"count"`
}

// String formats the average as a percentage with two decimals, or "n/a".
func (a Average) String() string {
	if a.Avg == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *a.Avg*100)
}

// ComputeAverage averages accuracy over the indices whose class has samples.
// Unknown indices are skipped.
func ComputeAverage(records []ClassRecord, indices []int) Average {
	sum := 0.0
	count := 0
	for _, idx := range indices {
		if idx < 0 || idx >= len(records) {
			continue
		}
		r := records[idx]
		if r.Total > 0 && r.Accuracy != nil {
			sum += *r.Accuracy
			count++
		}
	}
	if count == 0 {
		return Average{}
	}
	avg := sum / float64(count)
	return Average{Avg: &avg, Count: count}
}
