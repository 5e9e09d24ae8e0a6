package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// SVG is a Canvas that streams SVG markup to a writer.
type SVG struct {
	w   *errWriter
	doc *svg.SVG
}

// NewSVG returns an SVG canvas writing to w.
func NewSVG(w io.Writer) *SVG {
	ew := &errWriter{w: w}
	return &SVG{w: ew, doc: svg.New(ew)}
}

func (c *SVG) Start(width, height float64) {
	c.doc.Start(px(width), px(height), `font-family="sans-serif"`)
}

func (c *SVG) Rect(x, y, w, h float64, s Style) {
	if s.Radius > 0 {
		r := px(s.Radius)
		c.doc.Roundrect(px(x), px(y), px(w), px(h), r, r, attrs(s)...)
		return
	}
	c.doc.Rect(px(x), px(y), px(w), px(h), attrs(s)...)
}

func (c *SVG) Line(x1, y1, x2, y2 float64, s Style) {
	c.doc.Line(px(x1), px(y1), px(x2), px(y2), attrs(s)...)
}

func (c *SVG) Circle(cx, cy, r float64, s Style) {
	c.doc.Circle(px(cx), px(cy), px(r), attrs(s)...)
}

func (c *SVG) Text(x, y float64, text string, s Style) {
	a := attrs(s)
	if s.Rotate != 0 {
		a = append(a, fmt.Sprintf(`transform="rotate(%s %d %d)"`, num(s.Rotate), px(x), px(y)))
	}
	c.doc.Text(px(x), px(y), text, a...)
}

func (c *SVG) Polyline(points []Point, s Style) {
	xs := make([]int, len(points))
	ys := make([]int, len(points))
	for i, p := range points {
		xs[i] = px(p.X)
		ys[i] = px(p.Y)
	}
	if s.Fill == "" {
		s.Fill = "none"
	}
	c.doc.Polyline(xs, ys, attrs(s)...)
}

func (c *SVG) BeginGroup(g Group) {
	var parts []string
	if g.Class != "" {
		parts = append(parts, fmt.Sprintf(`class="%s"`, escape(g.Class)))
	}
	keys := make([]string, 0, len(g.Data))
	for k := range g.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf(`data-%s="%s"`, k, escape(g.Data[k])))
	}
	if len(parts) > 0 {
		c.doc.Group(strings.Join(parts, " "))
	} else {
		c.doc.Group()
	}
	if g.Tooltip != "" {
		c.doc.Title(g.Tooltip)
	}
}

func (c *SVG) EndGroup() {
	c.doc.Gend()
}

func (c *SVG) LinearGradient(id string, stops []Stop) {
	offsets := make([]svg.Offcolor, len(stops))
	for i, s := range stops {
		offsets[i] = svg.Offcolor{
			Offset:  uint8(math.Round(clamp01(s.Offset) * 100)),
			Color:   s.Color,
			Opacity: 1,
		}
	}
	c.doc.Def()
	c.doc.LinearGradient(id, 0, 0, 100, 0, offsets)
	c.doc.DefEnd()
}

// End closes the document and returns the first write error, if any.
func (c *SVG) End() error {
	c.doc.End()
	return c.w.err
}

func attrs(s Style) []string {
	var b strings.Builder
	add := func(name, value string) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, `%s="%s"`, name, escape(value))
	}

	if s.Fill != "" {
		add("fill", s.Fill)
	}
	if s.Stroke != "" {
		add("stroke", s.Stroke)
	}
	if s.StrokeWidth > 0 {
		add("stroke-width", num(s.StrokeWidth))
	}
	if s.Opacity > 0 {
		add("opacity", num(s.Opacity))
	}
	if s.Linecap != "" {
		add("stroke-linecap", s.Linecap)
	}
	if s.FontSize > 0 {
		add("font-size", num(s.FontSize))
	}
	if s.Anchor != "" {
		add("text-anchor", s.Anchor)
	}
	if s.Class != "" {
		add("class", s.Class)
	}

	if b.Len() == 0 {
		return nil
	}
	return []string{b.String()}
}

func px(v float64) int {
	return int(math.Round(v))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func escape(s string) string {
	return attrEscaper.Replace(s)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
