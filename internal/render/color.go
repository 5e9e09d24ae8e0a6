package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Ramp is a sequential color scale interpolated piecewise in RGB between
// evenly spaced anchors.
type Ramp []colorful.Color

// NewRamp builds a ramp from hex anchors. It panics on malformed input and is
// meant for package-level palettes.
func NewRamp(hexes ...string) Ramp {
	r := make(Ramp, len(hexes))
	for i, h := range hexes {
		r[i] = mustHex(h)
	}
	return r
}

func mustHex(h string) colorful.Color {
	c, err := colorful.Hex(h)
	if err != nil {
		panic(err)
	}
	return c
}

// At returns the color at t, clamped to [0,1].
func (r Ramp) At(t float64) colorful.Color {
	switch len(r) {
	case 0:
		return colorful.Color{}
	case 1:
		return r[0]
	}
	if math.IsNaN(t) {
		t = 0
	}
	t = clamp01(t)
	pos := t * float64(len(r)-1)
	i := int(math.Floor(pos))
	if i >= len(r)-1 {
		return r[len(r)-1]
	}
	return r[i].BlendRgb(r[i+1], pos-float64(i)).Clamped()
}

// Hex returns the color at t as #rrggbb.
func (r Ramp) Hex(t float64) string {
	return r.At(t).Hex()
}

// Sequential schemes from ColorBrewer.
var (
	Blues  = NewRamp("#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b")
	YlGnBu = NewRamp("#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4", "#1d91c0", "#225ea8", "#253494", "#081d58")
	Edges  = NewRamp(ColorEdgeLow, ColorEdgeHigh)
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// Lighten blends c toward white by amount in [0,1].
func Lighten(c colorful.Color, amount float64) colorful.Color {
	return c.BlendRgb(white, clamp01(amount)).Clamped()
}

// MissColor is the fill of a misclassification segment predicting class
// predIndex out of n classes.
func MissColor(predIndex, n int) string {
	t := 0.0
	if n > 1 {
		t = float64(predIndex) / float64(n-1)
	}
	return Lighten(YlGnBu.At(t), 0.45).Hex()
}
