package dashboard

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/runs"
)

// View is the derived presentation of a session's active panel. Exactly one
// of the panel fields is set once a run is loaded.
type View struct {
	Session   uuid.UUID        `json:"session"`
	Run       string           `json:"run"`
	Tab       Tab              `json:"tab"`
	Status    string           `json:"status"`
	Loading   bool             `json:"loading"`
	Filter    confusion.Filter `json:"filter"`
	Selection []int            `json:"selection"`

	History  *HistoryView  `json:"history,omitempty"`
	PerClass *PerClassView `json:"per_class,omitempty"`
	Matrix   *MatrixView   `json:"matrix,omitempty"`
	Graph    *GraphView    `json:"graph,omitempty"`
}

// HistoryView is the training-curve panel.
type HistoryView struct {
	Meta      string       `json:"meta"`
	Summary   runs.Summary `json:"summary"`
	HasEpochs bool         `json:"has_epochs"`
	Accuracy  []SeriesView `json:"accuracy"`
	Loss      []SeriesView `json:"loss"`
}

// SeriesView is one named curve.
type SeriesView struct {
	Name   string       `json:"name"`
	Points []runs.Point `json:"points"`
}

// Averages summarises mean accuracy over all classes and the selection.
type Averages struct {
	All           string `json:"all"`
	AllCount      string `json:"all_count"`
	Selected      string `json:"selected"`
	SelectedCount string `json:"selected_count"`
}

// ClassRow is one per-class bar.
type ClassRow struct {
	confusion.ClassRecord
	Selected bool                   `json:"selected"`
	Segments []confusion.BarSegment `json:"segments"`
}

// PerClassView is the per-class bars panel.
type PerClassView struct {
	Meta     string     `json:"meta"`
	Message  string     `json:"message,omitempty"`
	Classes  []ClassRow `json:"classes"`
	Averages Averages   `json:"averages"`
}

// MatrixView is the heatmap panel over the filtered classes.
type MatrixView struct {
	Meta      string      `json:"meta"`
	Message   string      `json:"message,omitempty"`
	Indices   []int       `json:"indices"`
	Labels    []string    `json:"labels"`
	Counts    [][]int     `json:"counts"`
	RowTotals []int       `json:"row_totals"`
	RowPct    [][]float64 `json:"row_pct"`
}

// GraphView is the confusion graph panel.
type GraphView struct {
	Meta    string            `json:"meta"`
	Message string            `json:"message,omitempty"`
	Graph   *confusion.Graph  `json:"graph,omitempty"`
	Layout  *confusion.Layout `json:"layout,omitempty"`
	Domain  [2]float64        `json:"domain"`
	Labels  map[int]string    `json:"labels,omitempty"`
}

// BuildView derives the view of the session's active panel.
func BuildView(s State, graphWidth float64) (View, error) {
	v := View{
		Session:   s.ID,
		Run:       s.Run,
		Tab:       s.Tab,
		Status:    s.Status,
		Loading:   s.Loading,
		Filter:    s.Filter,
		Selection: s.Selection.Indices(),
	}
	if !s.Loaded() {
		return v, nil
	}

	switch s.Tab {
	case TabHistory:
		v.History = NewHistoryView(s.Data.History)
	case TabPerClass:
		v.PerClass = NewPerClassView(s.Data, s.Filter.MaxAccuracyPercent, s.Selection)
	case TabMatrix:
		v.Matrix = NewMatrixView(s.Data, s.Filter.MaxAccuracyPercent)
	case TabGraph:
		gv, err := NewGraphView(s.Data, s.Filter, graphWidth)
		if err != nil {
			return v, err
		}
		v.Graph = gv
	default:
		return v, ErrInvalidTab
	}
	return v, nil
}

// NewHistoryView builds the history panel of h.
func NewHistoryView(h *runs.History) *HistoryView {
	if h == nil {
		h = &runs.History{}
	}
	return &HistoryView{
		Meta:      h.Summary.String(),
		Summary:   h.Summary,
		HasEpochs: len(h.Epochs) > 0,
		Accuracy: []SeriesView{
			{Name: "train", Points: h.Series(runs.TrainAccuracy)},
			{Name: "val", Points: h.Series(runs.ValAccuracy)},
		},
		Loss: []SeriesView{
			{Name: "train", Points: h.Series(runs.TrainLoss)},
			{Name: "val", Points: h.Series(runs.ValLoss)},
		},
	}
}

// NewPerClassView builds the per-class panel for the classes at or below
// maxAccuracy percent.
func NewPerClassView(run *runs.Run, maxAccuracy float64, sel confusion.Selection) *PerClassView {
	visible := confusion.FilteredClasses(run.Records, maxAccuracy)

	all := confusion.ComputeAverage(run.Records, confusion.Indices(run.Records))
	selected := confusion.ComputeAverage(run.Records, sel.Indices())

	v := &PerClassView{
		Meta:    showing(len(visible), len(run.Records)),
		Classes: make([]ClassRow, len(visible)),
		Averages: Averages{
			All:           all.String(),
			AllCount:      fmt.Sprintf("%d classes", all.Count),
			Selected:      selected.String(),
			SelectedCount: fmt.Sprintf("%d selected", sel.Len()),
		},
	}
	if len(visible) == 0 {
		v.Message, _ = confusion.Message(confusion.ErrNoCandidates)
	}
	for i, rec := range visible {
		v.Classes[i] = ClassRow{
			ClassRecord: rec,
			Selected:    sel.Has(rec.Index),
			Segments:    confusion.BarSegments(rec),
		}
	}
	return v
}

// NewMatrixView builds the heatmap panel for the classes at or below
// maxAccuracy percent.
func NewMatrixView(run *runs.Run, maxAccuracy float64) *MatrixView {
	visible := confusion.FilteredClasses(run.Records, maxAccuracy)
	indices := confusion.Indices(visible)

	v := &MatrixView{
		Meta:      showing(len(visible), len(run.Records)),
		Indices:   indices,
		Labels:    make([]string, len(visible)),
		Counts:    run.Matrix.Sub(indices),
		RowTotals: make([]int, len(visible)),
		RowPct:    make([][]float64, len(visible)),
	}
	if len(visible) == 0 {
		v.Message, _ = confusion.Message(confusion.ErrNoCandidates)
	}
	for i, rec := range visible {
		v.Labels[i] = rec.Short
		v.RowTotals[i] = rec.Total
		row := make([]float64, len(indices))
		for j, count := range v.Counts[i] {
			if rec.Total > 0 {
				row[j] = float64(count) / float64(rec.Total)
			}
		}
		v.RowPct[i] = row
	}
	return v
}

// NewGraphView builds the confusion graph panel. Insufficient data is
// reported through Message rather than an error.
func NewGraphView(run *runs.Run, f confusion.Filter, width float64) (*GraphView, error) {
	candidates := confusion.GraphCandidates(run.Records, run.Matrix, f.MinConfusions)
	g, err := confusion.BuildGraph(candidates, run.Matrix, run.Totals(), f.SingleEdges)
	if err != nil {
		if msg, ok := confusion.Message(err); ok {
			return &GraphView{Message: msg}, nil
		}
		return nil, err
	}

	layout := confusion.CircularLayout(g.Order, width)
	labels := make(map[int]string, len(g.Nodes))
	for _, n := range g.Nodes {
		labels[n] = run.Records[n].Short
	}

	return &GraphView{
		Meta:   fmt.Sprintf("Showing %d of %d classes, %d edges", len(g.Nodes), len(run.Records), len(g.Edges)),
		Graph:  g,
		Layout: &layout,
		Domain: confusion.RateDomain(g.Edges),
		Labels: labels,
	}, nil
}

func showing(n, total int) string {
	return fmt.Sprintf("Showing %d of %d classes", n, total)
}
