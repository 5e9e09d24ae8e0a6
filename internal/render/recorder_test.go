package render_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/render"
)

type op struct {
	kind   string
	x, y   float64
	w, h   float64
	text   string
	style  render.Style
	group  render.Group
	points []render.Point
	stops  []render.Stop
}

// recorder is a Canvas that keeps every call for inspection.
type recorder struct {
	width, height float64
	ops           []op
	depth         int
	ended         bool
}

func (r *recorder) Start(w, h float64) { r.width, r.height = w, h }

func (r *recorder) Rect(x, y, w, h float64, s render.Style) {
	r.ops = append(r.ops, op{kind: "rect", x: x, y: y, w: w, h: h, style: s})
}

func (r *recorder) Line(x1, y1, x2, y2 float64, s render.Style) {
	r.ops = append(r.ops, op{kind: "line", x: x1, y: y1, w: x2, h: y2, style: s})
}

func (r *recorder) Circle(cx, cy, rad float64, s render.Style) {
	r.ops = append(r.ops, op{kind: "circle", x: cx, y: cy, w: rad, style: s})
}

func (r *recorder) Text(x, y float64, text string, s render.Style) {
	r.ops = append(r.ops, op{kind: "text", x: x, y: y, text: text, style: s})
}

func (r *recorder) Polyline(points []render.Point, s render.Style) {
	r.ops = append(r.ops, op{kind: "polyline", points: points, style: s})
}

func (r *recorder) BeginGroup(g render.Group) {
	r.depth++
	r.ops = append(r.ops, op{kind: "group", group: g})
}

func (r *recorder) EndGroup() { r.depth-- }

func (r *recorder) LinearGradient(id string, stops []render.Stop) {
	r.ops = append(r.ops, op{kind: "gradient", text: id, stops: stops})
}

func (r *recorder) End() error {
	r.ended = true
	return nil
}

func (r *recorder) filter(kind string) []op {
	var out []op
	for _, o := range r.ops {
		if o.kind == kind {
			out = append(out, o)
		}
	}
	return out
}

func (r *recorder) texts() []string {
	var out []string
	for _, o := range r.filter("text") {
		out = append(out, o.text)
	}
	return out
}

func (r *recorder) tooltips() []string {
	var out []string
	for _, o := range r.filter("group") {
		if o.group.Tooltip != "" {
			out = append(out, o.group.Tooltip)
		}
	}
	return out
}

func (r *recorder) balanced(t *testing.T) {
	t.Helper()
	if r.depth != 0 {
		t.Errorf("unbalanced groups: depth %d", r.depth)
	}
	if !r.ended {
		t.Error("canvas not ended")
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func loadMatrix(t *testing.T, csv string) (*confusion.Matrix, []confusion.ClassRecord) {
	t.Helper()
	m, err := confusion.ParseMatrix(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseMatrix: %v", err)
	}
	return m, confusion.BuildRecords(m)
}

const catDog = "true,cat,dog\ncat,8,2\ndog,3,7\n"
