package dashboard_test

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/dashboard"
	"github.com/JaimeStill/wayfinder/internal/runs"
)

func loaded(t *testing.T) dashboard.State {
	t.Helper()
	s, err := dashboard.ApplyRun(buildRun(t, "baseline", threeClass))(dashboard.NewState(uuid.New()))
	if err != nil {
		t.Fatalf("ApplyRun: %v", err)
	}
	return s
}

func TestNewState(t *testing.T) {
	s := dashboard.NewState(uuid.New())

	if s.Tab != dashboard.TabHistory {
		t.Errorf("tab = %s, want history", s.Tab)
	}
	if s.Filter != confusion.DefaultFilter() {
		t.Errorf("filter = %+v, want default", s.Filter)
	}
	if s.Loaded() {
		t.Error("new state reports loaded")
	}
}

func TestParseTab(t *testing.T) {
	for _, tab := range dashboard.Tabs() {
		got, err := dashboard.ParseTab(string(tab))
		if err != nil || got != tab {
			t.Errorf("ParseTab(%q) = %q, %v", tab, got, err)
		}
	}
	if _, err := dashboard.ParseTab("settings"); !errors.Is(err, dashboard.ErrInvalidTab) {
		t.Errorf("err = %v, want ErrInvalidTab", err)
	}
}

func TestTabUnmarshalJSON(t *testing.T) {
	var cmd dashboard.TabCommand
	if err := json.Unmarshal([]byte(`{"tab":"graph"}`), &cmd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cmd.Tab != dashboard.TabGraph {
		t.Errorf("tab = %s", cmd.Tab)
	}
	if err := json.Unmarshal([]byte(`{"tab":"nope"}`), &cmd); !errors.Is(err, dashboard.ErrInvalidTab) {
		t.Errorf("err = %v, want ErrInvalidTab", err)
	}
}

func TestTabFilters(t *testing.T) {
	tests := []struct {
		tab      dashboard.Tab
		accuracy bool
		graph    bool
	}{
		{dashboard.TabHistory, false, false},
		{dashboard.TabPerClass, true, false},
		{dashboard.TabMatrix, true, false},
		{dashboard.TabGraph, false, true},
	}
	for _, tt := range tests {
		if got := tt.tab.ShowsAccuracyFilter(); got != tt.accuracy {
			t.Errorf("%s accuracy filter = %v", tt.tab, got)
		}
		if got := tt.tab.ShowsGraphFilter(); got != tt.graph {
			t.Errorf("%s graph filter = %v", tt.tab, got)
		}
	}
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	before := loaded(t)

	after, err := dashboard.ToggleClass(1)(before)
	if err != nil {
		t.Fatalf("ToggleClass: %v", err)
	}
	if before.Selection.Has(1) {
		t.Error("input selection changed")
	}
	if !after.Selection.Has(1) {
		t.Error("output selection missing toggled class")
	}
}

func TestFilterTransitions(t *testing.T) {
	s := loaded(t)

	s, err := dashboard.SetAccuracyFilter(60)(s)
	if err != nil {
		t.Fatalf("SetAccuracyFilter: %v", err)
	}
	s, err = dashboard.SetMinConfusions(3)(s)
	if err != nil {
		t.Fatalf("SetMinConfusions: %v", err)
	}
	s, _ = dashboard.SetSingleEdges(true)(s)

	want := confusion.Filter{MaxAccuracyPercent: 60, MinConfusions: 3, SingleEdges: true}
	if s.Filter != want {
		t.Errorf("filter = %+v, want %+v", s.Filter, want)
	}

	for name, tr := range map[string]dashboard.Transition{
		"accuracy above 100": dashboard.SetAccuracyFilter(101),
		"negative accuracy":  dashboard.SetAccuracyFilter(-1),
		"negative min":       dashboard.SetMinConfusions(-1),
	} {
		t.Run(name, func(t *testing.T) {
			got, err := tr(s)
			if !errors.Is(err, dashboard.ErrInvalidCommand) {
				t.Errorf("err = %v, want ErrInvalidCommand", err)
			}
			if got.Filter != want {
				t.Errorf("filter changed on error: %+v", got.Filter)
			}
		})
	}
}

func TestSelectionTransitions(t *testing.T) {
	s := loaded(t)

	s, err := dashboard.SelectAll()(s)
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	if s.Selection.Len() != 3 {
		t.Errorf("all: len = %d", s.Selection.Len())
	}

	s, _ = dashboard.ClearSelection()(s)
	if s.Selection.Len() != 0 {
		t.Errorf("clear: len = %d", s.Selection.Len())
	}

	s, _ = dashboard.SetAccuracyFilter(60)(s)
	s, err = dashboard.SelectVisible()(s)
	if err != nil {
		t.Fatalf("SelectVisible: %v", err)
	}
	if got := s.Selection.Indices(); !slices.Equal(got, []int{2}) {
		t.Errorf("visible = %v, want [2]", got)
	}

	s, err = dashboard.SetSelection([]int{0, 1})(s)
	if err != nil {
		t.Fatalf("SetSelection: %v", err)
	}
	if got := s.Selection.Indices(); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("set = %v", got)
	}

	if _, err := dashboard.ToggleClass(3)(s); !errors.Is(err, confusion.ErrIndexOutOfRange) {
		t.Errorf("toggle out of range err = %v", err)
	}
	if _, err := dashboard.SetSelection([]int{0, -1})(s); !errors.Is(err, confusion.ErrIndexOutOfRange) {
		t.Errorf("set out of range err = %v", err)
	}
}

func TestSelectionRequiresRun(t *testing.T) {
	s := dashboard.NewState(uuid.New())

	for name, tr := range map[string]dashboard.Transition{
		"toggle":  dashboard.ToggleClass(0),
		"set":     dashboard.SetSelection([]int{0}),
		"all":     dashboard.SelectAll(),
		"visible": dashboard.SelectVisible(),
	} {
		if _, err := tr(s); !errors.Is(err, dashboard.ErrNoRun) {
			t.Errorf("%s: err = %v, want ErrNoRun", name, err)
		}
	}
}

func TestApplyRunResetsSelection(t *testing.T) {
	s := loaded(t)
	s, _ = dashboard.SelectAll()(s)
	s, _ = dashboard.SetAccuracyFilter(70)(s)

	s, err := dashboard.ApplyRun(buildRun(t, "next", threeClass))(s)
	if err != nil {
		t.Fatalf("ApplyRun: %v", err)
	}
	if s.Selection.Len() != 0 {
		t.Errorf("selection not reset: %v", s.Selection.Indices())
	}
	if s.Filter.MaxAccuracyPercent != 70 {
		t.Errorf("filter lost across runs: %+v", s.Filter)
	}
	if s.Run != "next" || s.Status != "Loaded next" || s.Loading {
		t.Errorf("state = run %q status %q loading %v", s.Run, s.Status, s.Loading)
	}
}

func TestLoadLifecycleTransitions(t *testing.T) {
	s := loaded(t)

	s, err := dashboard.BeginLoad("other")(s)
	if err != nil {
		t.Fatalf("BeginLoad: %v", err)
	}
	if !s.Loading || s.Status != "Loading other..." {
		t.Errorf("begin: loading %v status %q", s.Loading, s.Status)
	}

	s, _ = dashboard.FailLoad("other")(s)
	if s.Loading || s.Status != "Failed to load other." {
		t.Errorf("fail: loading %v status %q", s.Loading, s.Status)
	}
	if s.Run != "baseline" || !s.Loaded() {
		t.Error("failed load discarded previous data")
	}

	if _, err := dashboard.BeginLoad("../etc")(s); !errors.Is(err, runs.ErrInvalidRun) {
		t.Errorf("err = %v, want ErrInvalidRun", err)
	}
	if _, err := dashboard.ApplyRun(nil)(s); !errors.Is(err, dashboard.ErrNoRun) {
		t.Errorf("err = %v, want ErrNoRun", err)
	}
}
