package render

import (
	"fmt"

	"github.com/JaimeStill/wayfinder/internal/confusion"
)

// Graph geometry.
const (
	nodeRadius   = 20
	legendX      = 24
	legendY      = 20
	legendWidth  = 180
	legendHeight = 10
	edgeOpacity  = 0.85
)

// ConfusionGraph draws g on a circular layout of the given width. records
// supply node labels and indices into them come from g.
func ConfusionGraph(c Canvas, g *confusion.Graph, records []confusion.ClassRecord, width float64) error {
	layout := confusion.CircularLayout(g.Order, width)
	domain := confusion.RateDomain(g.Edges)
	colorScale := confusion.LinearScale{Domain: domain, Range: [2]float64{0, 1}}
	widthScale := confusion.WidthScale(domain)

	c.Start(layout.Width, layout.Height)
	drawLegend(c, domain)

	for _, e := range g.Edges {
		seg, ok := layout.EdgeSegment(e)
		if !ok {
			continue
		}
		c.BeginGroup(Group{Tooltip: edgeTooltip(e, records)})
		c.Line(seg.X1, seg.Y1, seg.X2, seg.Y2, Style{
			Stroke:      Edges.Hex(colorScale.Map(e.AvgRate)),
			StrokeWidth: widthScale.Map(e.AvgRate),
			Opacity:     edgeOpacity,
			Linecap:     "round",
		})
		c.EndGroup()
	}

	for _, p := range layout.Positions {
		c.BeginGroup(Group{Tooltip: fullLabel(records, p.Index), Class: "node"})
		c.Circle(p.X, p.Y, nodeRadius, Style{Fill: ColorNode, Stroke: ColorSeparator, StrokeWidth: 1.2})
		c.Text(p.X, p.Y+4, shortLabel(records, p.Index), Style{FontSize: defaultFontSize, Anchor: "middle", Fill: ColorText})
		c.EndGroup()
	}

	return c.End()
}

func drawLegend(c Canvas, domain [2]float64) {
	c.LinearGradient(gradientLegend, []Stop{
		{Offset: 0, Color: Edges.Hex(0)},
		{Offset: 1, Color: Edges.Hex(1)},
	})
	c.Text(legendX, legendY-6, "Avg confusion", Style{FontSize: defaultFontSize})
	c.Rect(legendX, legendY, legendWidth, legendHeight, Style{
		Fill:        "url(#" + gradientLegend + ")",
		Stroke:      ColorAxis,
		StrokeWidth: 1,
	})

	label := Style{FontSize: 10}
	c.Text(legendX, legendY+legendHeight+12, fmt.Sprintf("%.1f%%", domain[0]*100), label)
	label.Anchor = "end"
	c.Text(legendX+legendWidth, legendY+legendHeight+12, fmt.Sprintf("%.1f%%", domain[1]*100), label)
}

func edgeTooltip(e confusion.Edge, records []confusion.ClassRecord) string {
	src := shortLabel(records, e.Source)
	tgt := shortLabel(records, e.Target)
	return fmt.Sprintf("Avg confusion: %.2f%%\n%s -> %s: %d (%.2f%%)\n%s -> %s: %d (%.2f%%)",
		e.AvgRate*100,
		src, tgt, e.CountIJ, e.RateIJ*100,
		tgt, src, e.CountJI, e.RateJI*100,
	)
}

func shortLabel(records []confusion.ClassRecord, idx int) string {
	if idx >= 0 && idx < len(records) {
		return records[idx].Short
	}
	return fmt.Sprintf("Class %d", idx)
}

func fullLabel(records []confusion.ClassRecord, idx int) string {
	if idx >= 0 && idx < len(records) {
		return records[idx].Full
	}
	return fmt.Sprintf("Class %d", idx)
}
