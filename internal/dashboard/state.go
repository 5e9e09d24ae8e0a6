// Package dashboard holds per-session analysis state, the transitions user
// actions apply to it, and the views derived from it.
package dashboard

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/runs"
)

// Tab is a dashboard panel.
type Tab string

// Dashboard panels.
const (
	TabHistory  Tab = "history"
	TabPerClass Tab = "per-class"
	TabMatrix   Tab = "matrix"
	TabGraph    Tab = "graph"
)

var tabs = []Tab{TabHistory, TabPerClass, TabMatrix, TabGraph}

// Tabs returns the dashboard panels in display order.
func Tabs() []Tab {
	return tabs
}

// ParseTab validates s as a known panel.
func ParseTab(s string) (Tab, error) {
	v := Tab(s)
	if !slices.Contains(tabs, v) {
		return "", ErrInvalidTab
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known panel.
func (t *Tab) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseTab(raw)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ShowsAccuracyFilter reports whether the accuracy filter applies to the panel.
func (t Tab) ShowsAccuracyFilter() bool {
	return t == TabPerClass || t == TabMatrix
}

// ShowsGraphFilter reports whether the graph filters apply to the panel.
func (t Tab) ShowsGraphFilter() bool {
	return t == TabGraph
}

// State is one dashboard session. Values are never mutated in place; every
// user action produces a new State through a Transition.
type State struct {
	ID        uuid.UUID           `json:"id"`
	Run       string              `json:"run"`
	Tab       Tab                 `json:"tab"`
	Filter    confusion.Filter    `json:"filter"`
	Selection confusion.Selection `json:"selection"`
	Status    string              `json:"status"`
	Loading   bool                `json:"loading"`
	Data      *runs.Run           `json:"-"`
	Updated   time.Time           `json:"updated"`
}

// NewState returns an empty session on the history panel with default filters.
func NewState(id uuid.UUID) State {
	return State{
		ID:        id,
		Tab:       TabHistory,
		Filter:    confusion.DefaultFilter(),
		Selection: confusion.NewSelection(0),
	}
}

// Loaded reports whether run data is available.
func (s State) Loaded() bool {
	return s.Data != nil && s.Data.Matrix != nil
}

// Transition maps a state to its successor.
type Transition func(State) (State, error)

// SelectTab switches the active panel.
func SelectTab(tab Tab) Transition {
	return func(s State) (State, error) {
		if !slices.Contains(tabs, tab) {
			return s, ErrInvalidTab
		}
		s.Tab = tab
		return s, nil
	}
}

// SetAccuracyFilter sets the maximum accuracy percentage shown on the
// per-class and matrix panels.
func SetAccuracyFilter(percent float64) Transition {
	return func(s State) (State, error) {
		if percent < 0 || percent > 100 {
			return s, fmt.Errorf("%w: max accuracy %v not in [0,100]", ErrInvalidCommand, percent)
		}
		s.Filter.MaxAccuracyPercent = percent
		return s, nil
	}
}

// SetMinConfusions sets the graph candidate threshold.
func SetMinConfusions(n int) Transition {
	return func(s State) (State, error) {
		if n < 0 {
			return s, fmt.Errorf("%w: min confusions %d is negative", ErrInvalidCommand, n)
		}
		s.Filter.MinConfusions = n
		return s, nil
	}
}

// SetSingleEdges controls whether pairs confused only once become edges.
func SetSingleEdges(on bool) Transition {
	return func(s State) (State, error) {
		s.Filter.SingleEdges = on
		return s, nil
	}
}

// ToggleClass flips selection of one class.
func ToggleClass(index int) Transition {
	return func(s State) (State, error) {
		if err := requireRun(s); err != nil {
			return s, err
		}
		sel, err := s.Selection.Toggle(index)
		if err != nil {
			return s, err
		}
		s.Selection = sel
		return s, nil
	}
}

// SetSelection replaces the selection.
func SetSelection(indices []int) Transition {
	return func(s State) (State, error) {
		if err := requireRun(s); err != nil {
			return s, err
		}
		sel, err := s.Selection.Set(indices)
		if err != nil {
			return s, err
		}
		s.Selection = sel
		return s, nil
	}
}

// SelectAll selects every class.
func SelectAll() Transition {
	return func(s State) (State, error) {
		if err := requireRun(s); err != nil {
			return s, err
		}
		s.Selection = s.Selection.All()
		return s, nil
	}
}

// ClearSelection empties the selection.
func ClearSelection() Transition {
	return func(s State) (State, error) {
		s.Selection = s.Selection.Clear()
		return s, nil
	}
}

// SelectVisible selects the classes that pass the accuracy filter.
func SelectVisible() Transition {
	return func(s State) (State, error) {
		if err := requireRun(s); err != nil {
			return s, err
		}
		visible := confusion.FilteredClasses(s.Data.Records, s.Filter.MaxAccuracyPercent)
		sel, err := s.Selection.Visible(visible)
		if err != nil {
			return s, err
		}
		s.Selection = sel
		return s, nil
	}
}

// BeginLoad marks a run load as in flight. Previously loaded data stays
// visible until the load succeeds.
func BeginLoad(run string) Transition {
	return func(s State) (State, error) {
		if err := runs.ValidateName(run); err != nil {
			return s, err
		}
		s.Loading = true
		s.Status = fmt.Sprintf("Loading %s...", run)
		return s, nil
	}
}

// ApplyRun installs freshly loaded run data and resets the selection.
// Filters carry over between runs.
func ApplyRun(data *runs.Run) Transition {
	return func(s State) (State, error) {
		if data == nil || data.Matrix == nil {
			return s, ErrNoRun
		}
		s.Run = data.Name
		s.Data = data
		s.Selection = confusion.NewSelection(data.Matrix.Size())
		s.Loading = false
		s.Status = fmt.Sprintf("Loaded %s", data.Name)
		return s, nil
	}
}

// FailLoad records a failed load and keeps the previous data.
func FailLoad(run string) Transition {
	return func(s State) (State, error) {
		s.Loading = false
		s.Status = fmt.Sprintf("Failed to load %s.", run)
		return s, nil
	}
}

func requireRun(s State) error {
	if !s.Loaded() {
		return ErrNoRun
	}
	return nil
}
