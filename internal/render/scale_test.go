package render_test

import (
	"math"
	"slices"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/JaimeStill/wayfinder/internal/render"
)

func TestRamp_Endpoints(t *testing.T) {
	tests := []struct {
		name string
		ramp render.Ramp
		t    float64
		want string
	}{
		{name: "blues low", ramp: render.Blues, t: 0, want: "#f7fbff"},
		{name: "blues high", ramp: render.Blues, t: 1, want: "#08306b"},
		{name: "ylgnbu low", ramp: render.YlGnBu, t: 0, want: "#ffffd9"},
		{name: "ylgnbu high", ramp: render.YlGnBu, t: 1, want: "#081d58"},
		{name: "edges low", ramp: render.Edges, t: 0, want: render.ColorEdgeLow},
		{name: "edges high", ramp: render.Edges, t: 1, want: render.ColorEdgeHigh},
		{name: "clamped below", ramp: render.Edges, t: -3, want: render.ColorEdgeLow},
		{name: "clamped above", ramp: render.Edges, t: 7, want: render.ColorEdgeHigh},
		{name: "nan", ramp: render.Edges, t: math.NaN(), want: render.ColorEdgeLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ramp.Hex(tt.t); got != tt.want {
				t.Errorf("Hex(%v) = %s, want %s", tt.t, got, tt.want)
			}
		})
	}
}

func TestNewRamp(t *testing.T) {
	r := render.NewRamp("#000000", "#ffffff")
	if got := r.Hex(0.5); got != "#808080" {
		t.Errorf("midpoint = %s, want #808080", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("malformed hex did not panic")
		}
	}()
	render.NewRamp("#zzzzzz")
}

func TestRamp_Midpoint(t *testing.T) {
	r := render.NewRamp("#000000", "#ffffff")
	if got := r.Hex(0.5); got != "#808080" {
		t.Errorf("Hex(0.5) = %s, want #808080", got)
	}
}

func TestLighten(t *testing.T) {
	black := colorful.Color{}
	if got := render.Lighten(black, 1).Hex(); got != "#ffffff" {
		t.Errorf("Lighten(black, 1) = %s", got)
	}
	if got := render.Lighten(black, 0).Hex(); got != "#000000" {
		t.Errorf("Lighten(black, 0) = %s", got)
	}
}

func TestMissColor_SingleClass(t *testing.T) {
	want := render.Lighten(render.YlGnBu.At(0), 0.45).Hex()
	if got := render.MissColor(0, 1); got != want {
		t.Errorf("MissColor(0, 1) = %s, want %s", got, want)
	}
}

func TestNice(t *testing.T) {
	tests := []struct {
		name   string
		domain [2]float64
		want   [2]float64
	}{
		{name: "unit", domain: [2]float64{0, 1}, want: [2]float64{0, 1}},
		{name: "loss", domain: [2]float64{0, 2.1}, want: [2]float64{0, 2.2}},
		{name: "degenerate", domain: [2]float64{0, 0}, want: [2]float64{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render.Nice(tt.domain, 10)
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("Nice(%v) = %v, want %v", tt.domain, got, tt.want)
				}
			}
		})
	}
}

func TestTicks(t *testing.T) {
	got := render.Ticks([2]float64{0, 1}, 5)
	want := []float64{0, 0.2, 0.4, 0.6, 0.8, 1}
	if !slices.Equal(got, want) {
		t.Errorf("Ticks = %v, want %v", got, want)
	}

	got = render.Ticks([2]float64{1, 20}, 6)
	want = []float64{5, 10, 15, 20}
	if !slices.Equal(got, want) {
		t.Errorf("Ticks = %v, want %v", got, want)
	}
}

func TestTickLabel(t *testing.T) {
	tests := []struct {
		v, step float64
		want    string
	}{
		{v: 0.2, step: 0.2, want: "0.2"},
		{v: 1, step: 0.2, want: "1.0"},
		{v: 15, step: 5, want: "15"},
		{v: 0.05, step: 0.05, want: "0.05"},
	}

	for _, tt := range tests {
		if got := render.TickLabel(tt.v, tt.step); got != tt.want {
			t.Errorf("TickLabel(%v, %v) = %q, want %q", tt.v, tt.step, got, tt.want)
		}
	}
}
