package render

import (
	"math"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/runs"
)

// Line chart geometry.
const (
	DefaultLineWidth = 640
	lineHeight       = 260
	lineMarginTop    = 20
	lineMarginRight  = 24
	lineMarginBottom = 34
	lineMarginLeft   = 48
	lineStrokeWidth  = 2.4
	legendSpacing    = 90
	yTickCount       = 5
	xTickCount       = 6
)

// Series is one named line.
type Series struct {
	Name   string
	Color  string
	Points []runs.Point
}

// LineChartOptions controls the line chart frame.
type LineChartOptions struct {
	Width   float64
	YDomain [2]float64
}

// LineChart draws series over a shared frame. The x extent follows the first
// series and the y domain is extended to round ticks. Non-finite points break
// a line rather than ending it.
func LineChart(c Canvas, series []Series, opts LineChartOptions) error {
	width := opts.Width
	if width <= 0 {
		width = DefaultLineWidth
	}
	innerW := width - lineMarginLeft - lineMarginRight
	innerH := float64(lineHeight - lineMarginTop - lineMarginBottom)

	var xDomain [2]float64
	if len(series) > 0 {
		xDomain = extent(series[0].Points)
	}
	x := confusion.LinearScale{Domain: xDomain, Range: [2]float64{0, innerW}}
	yDomain := Nice(opts.YDomain, 10)
	y := confusion.LinearScale{Domain: yDomain, Range: [2]float64{innerH, 0}}

	c.Start(width, lineHeight)

	left, top := float64(lineMarginLeft), float64(lineMarginTop)
	yTicks := Ticks(yDomain, yTickCount)
	yStep := tickStep(yDomain[0], yDomain[1], yTickCount)
	for _, t := range yTicks {
		ty := top + y.Map(t)
		c.Line(left, ty, left+innerW, ty, Style{Stroke: ColorGrid, StrokeWidth: 1})
	}

	axis := Style{Stroke: ColorAxis, StrokeWidth: 1}
	label := Style{Fill: ColorAxis, FontSize: 10}

	c.Line(left, top, left, top+innerH, axis)
	for _, t := range yTicks {
		ty := top + y.Map(t)
		c.Line(left-6, ty, left, ty, axis)
		l := label
		l.Anchor = "end"
		c.Text(left-9, ty+3, TickLabel(t, yStep), l)
	}

	c.Line(left, top+innerH, left+innerW, top+innerH, axis)
	xStep := tickStep(xDomain[0], xDomain[1], xTickCount)
	for _, t := range Ticks(xDomain, xTickCount) {
		tx := left + x.Map(t)
		c.Line(tx, top+innerH, tx, top+innerH+6, axis)
		l := label
		l.Anchor = "middle"
		c.Text(tx, top+innerH+18, TickLabel(t, xStep), l)
	}

	for _, s := range series {
		for _, run := range segments(s.Points) {
			pts := make([]Point, len(run))
			for i, p := range run {
				pts[i] = Point{X: left + x.Map(p.X), Y: top + y.Map(float64(p.Y))}
			}
			c.Polyline(pts, Style{Fill: "none", Stroke: s.Color, StrokeWidth: lineStrokeWidth})
		}
	}

	for i, s := range series {
		lx := left + float64(i*legendSpacing)
		c.Rect(lx, 8, 12, 12, Style{Fill: s.Color, Radius: 3})
		c.Text(lx+18, 18, s.Name, Style{FontSize: 12})
	}

	return c.End()
}

// AccuracyChart draws train and validation accuracy on a [0,1] axis.
func AccuracyChart(c Canvas, h *runs.History, width float64) error {
	return LineChart(c, []Series{
		{Name: "train", Color: ColorTrain, Points: h.Series(runs.TrainAccuracy)},
		{Name: "val", Color: ColorVal, Points: h.Series(runs.ValAccuracy)},
	}, LineChartOptions{Width: width, YDomain: [2]float64{0, 1}})
}

// LossChart draws train and validation loss on [0, 1.05 * max], or [0,1]
// when no loss value is finite.
func LossChart(c Canvas, h *runs.History, width float64) error {
	series := []Series{
		{Name: "train", Color: ColorTrain, Points: h.Series(runs.TrainLoss)},
		{Name: "val", Color: ColorVal, Points: h.Series(runs.ValLoss)},
	}

	top := math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			if p.Y.Valid() {
				top = max(top, float64(p.Y))
			}
		}
	}
	hi := 1.0
	if !math.IsInf(top, -1) {
		hi = top * 1.05
	}

	return LineChart(c, series, LineChartOptions{Width: width, YDomain: [2]float64{0, hi}})
}

func extent(points []runs.Point) [2]float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = min(lo, p.X)
		hi = max(hi, p.X)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return [2]float64{0, 1}
	}
	return [2]float64{lo, hi}
}

// segments splits points into runs of consecutive finite values.
func segments(points []runs.Point) [][]runs.Point {
	var out [][]runs.Point
	var cur []runs.Point
	for _, p := range points {
		if !p.Y.Valid() {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
