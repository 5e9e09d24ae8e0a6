package dashboard

import (
	"slices"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/render"
	"github.com/JaimeStill/wayfinder/internal/runs"
)

// Chart is one paintable visualization.
type Chart string

// Paintable charts. The history panel carries two.
const (
	ChartAccuracy Chart = "accuracy"
	ChartLoss     Chart = "loss"
	ChartPerClass Chart = "per-class"
	ChartMatrix   Chart = "matrix"
	ChartGraph    Chart = "graph"
)

var charts = []Chart{ChartAccuracy, ChartLoss, ChartPerClass, ChartMatrix, ChartGraph}

// ParseChart validates s as a chart name. An empty name selects the primary
// chart of tab.
func ParseChart(s string, tab Tab) (Chart, error) {
	if s == "" {
		return DefaultChart(tab), nil
	}
	v := Chart(s)
	if !slices.Contains(charts, v) {
		return "", ErrInvalidChart
	}
	return v, nil
}

// DefaultChart is the primary chart of a panel.
func DefaultChart(tab Tab) Chart {
	switch tab {
	case TabPerClass:
		return ChartPerClass
	case TabMatrix:
		return ChartMatrix
	case TabGraph:
		return ChartGraph
	default:
		return ChartAccuracy
	}
}

const noRunMessage = "No run loaded."

// Paint draws chart for the session onto c.
func Paint(c render.Canvas, s State, chart Chart, width float64) error {
	if !s.Loaded() {
		msg := noRunMessage
		if s.Status != "" {
			msg = s.Status
		}
		return render.Message(c, msg, width)
	}
	return PaintRun(c, s.Data, s.Filter, s.Selection, chart, width)
}

// PaintRun draws chart for a loaded run under the given filter and selection.
func PaintRun(c render.Canvas, run *runs.Run, f confusion.Filter, sel confusion.Selection, chart Chart, width float64) error {
	switch chart {
	case ChartAccuracy, ChartLoss:
		if run.History == nil || len(run.History.Epochs) == 0 {
			return render.Message(c, runs.Summary{}.String(), width)
		}
		if chart == ChartLoss {
			return render.LossChart(c, run.History, width)
		}
		return render.AccuracyChart(c, run.History, width)

	case ChartPerClass:
		return render.PerClassBars(c, render.PerClassOptions{
			Classes:   confusion.FilteredClasses(run.Records, f.MaxAccuracyPercent),
			All:       run.Records,
			Selection: sel,
			Width:     width,
		})

	case ChartMatrix:
		return render.MatrixHeatmap(c, confusion.FilteredClasses(run.Records, f.MaxAccuracyPercent), run.Matrix)

	case ChartGraph:
		candidates := confusion.GraphCandidates(run.Records, run.Matrix, f.MinConfusions)
		g, err := confusion.BuildGraph(candidates, run.Matrix, run.Totals(), f.SingleEdges)
		if err != nil {
			return render.Insufficient(c, err, width)
		}
		return render.ConfusionGraph(c, g, run.Records, width)

	default:
		return ErrInvalidChart
	}
}
