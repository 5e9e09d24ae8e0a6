package render

import (
	"fmt"
	"strconv"

	"github.com/JaimeStill/wayfinder/internal/confusion"
)

// Per-class bar geometry.
const (
	DefaultBarsWidth = 860
	barLabelWidth    = 90
	barValueWidth    = 70
	barHeight        = 16
	barGap           = 10
	barMarginTop     = 10
	minBarChartWidth = 40
)

// PerClassOptions configures PerClassBars. Classes are the rows to draw and
// All the full record set, used to resolve predicted labels.
type PerClassOptions struct {
	Classes   []confusion.ClassRecord
	All       []confusion.ClassRecord
	Selection confusion.Selection
	Width     float64
}

// PerClassBars draws one stacked bar per class: the correct share first, then
// misclassifications by count. Selected rows are highlighted.
func PerClassBars(c Canvas, opts PerClassOptions) error {
	if len(opts.Classes) == 0 {
		return Insufficient(c, confusion.ErrNoCandidates, opts.Width)
	}

	width := opts.Width
	if width <= 0 {
		width = DefaultBarsWidth
	}
	chartW := max(minBarChartWidth, width-barLabelWidth-barValueWidth)
	n := len(opts.Classes)
	height := float64(barMarginTop + n*barHeight + (n-1)*barGap)

	c.Start(width, height)

	for row, rec := range opts.Classes {
		top := float64(barMarginTop + row*(barHeight+barGap))

		c.BeginGroup(Group{Class: "class-row", Data: map[string]string{"index": strconv.Itoa(rec.Index)}})
		if opts.Selection.Has(rec.Index) {
			c.Rect(0, top-2, width, barHeight+4, Style{Fill: ColorHighlight})
		}
		c.Text(0, top+barHeight-2, rec.Short, Style{FontSize: defaultFontSize})
		c.Rect(barLabelWidth, top, chartW, barHeight, Style{Fill: ColorTrack})

		cursor := float64(barLabelWidth)
		for _, seg := range confusion.BarSegments(rec) {
			w := chartW * seg.Pct
			if w <= 0 {
				continue
			}
			fill := ColorCorrect
			if seg.Kind == confusion.SegmentMiss {
				fill = MissColor(seg.PredIndex, len(opts.All))
			}

			c.BeginGroup(Group{Tooltip: segmentTooltip(rec, seg, opts.All)})
			c.Rect(cursor, top, w, barHeight, Style{Fill: fill, Stroke: ColorSeparator, StrokeWidth: 0.4})
			c.EndGroup()
			cursor += w
		}

		c.Text(barLabelWidth+chartW+8, top+barHeight-2, accuracyLabel(rec), Style{FontSize: defaultFontSize, Fill: ColorTrain})
		c.EndGroup()
	}

	return c.End()
}

func segmentTooltip(rec confusion.ClassRecord, seg confusion.BarSegment, all []confusion.ClassRecord) string {
	pred := strconv.Itoa(seg.PredIndex)
	if seg.PredIndex >= 0 && seg.PredIndex < len(all) {
		pred = all[seg.PredIndex].Short
	}
	return fmt.Sprintf("True: %s\nPred: %s\nCount: %d\nPercent: %.1f%%", rec.Short, pred, seg.Count, seg.Pct*100)
}

func accuracyLabel(rec confusion.ClassRecord) string {
	if !rec.HasAccuracy() {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", rec.AccuracyValue()*100)
}
