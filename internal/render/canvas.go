// Package render paints dashboard views onto a minimal drawing surface.
// Adapters only know the Canvas interface; SVG is the shipped implementation.
package render

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// Style carries the presentation attributes of a primitive. Zero fields are
// omitted from the output.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
	Radius      float64
	FontSize    float64
	Anchor      string
	Rotate      float64
	Linecap     string
	Class       string
}

// Group describes a grouping element. Tooltip is shown on hover; Data becomes
// data-* attributes for client-side wiring.
type Group struct {
	Tooltip string
	Class   string
	Data    map[string]string
}

// Stop is a gradient color stop at Offset in [0,1].
type Stop struct {
	Offset float64
	Color  string
}

// Canvas is the drawing surface the chart adapters paint onto.
type Canvas interface {
	Start(width, height float64)
	Rect(x, y, w, h float64, s Style)
	Line(x1, y1, x2, y2 float64, s Style)
	Circle(cx, cy, r float64, s Style)
	Text(x, y float64, text string, s Style)
	Polyline(points []Point, s Style)
	BeginGroup(g Group)
	EndGroup()
	// LinearGradient defines a horizontal gradient referenced as url(#id).
	LinearGradient(id string, stops []Stop)
	End() error
}

// Palette.
const (
	ColorTrain      = "#e76f51"
	ColorVal        = "#2a9d8f"
	ColorCorrect    = "#c65236"
	ColorGrid       = "#e2d7c6"
	ColorAxis       = "#1f2a44"
	ColorTrack      = "#f1ede4"
	ColorHighlight  = "rgba(42,157,143,0.12)"
	ColorNode       = "#2a9d8f"
	ColorSeparator  = "#ffffff"
	ColorText       = "#000000"
	ColorMutedText  = "#5c6470"
	ColorEdgeLow    = "#bfe4ff"
	ColorEdgeHigh   = "#0b3a8e"
	gradientLegend  = "edge-legend"
	defaultFontSize = 11
)
