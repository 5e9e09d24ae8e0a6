package confusion

import "math"

// Layout bounds for the circular graph.
const (
	DefaultGraphWidth = 900
	minGraphHeight    = 880
	graphPadding      = 100
	minGraphRadius    = 190
	radiusFactor      = 0.82
	edgeOffset        = 8
)

// Position places one node on the layout circle.
type Position struct {
	Index int     `json:"index"`
	Angle float64 `json:"angle"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Layout is a circular placement of a visiting order.
type Layout struct {
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	CenterX   float64    `json:"center_x"`
	CenterY   float64    `json:"center_y"`
	Radius    float64    `json:"radius"`
	Positions []Position `json:"positions"`
}

// CircularLayout places order evenly around a circle sized for a container of
// the given width. The first node sits at 12 o'clock and the order proceeds
// clockwise.
func CircularLayout(order []int, width float64) Layout {
	if width <= 0 {
		width = DefaultGraphWidth
	}
	height := max(minGraphHeight, math.Round(width*0.9))
	baseRadius := min(width, height)/2 - graphPadding
	radius := max(minGraphRadius, baseRadius*radiusFactor)

	l := Layout{
		Width:     width,
		Height:    height,
		CenterX:   width / 2,
		CenterY:   height / 2,
		Radius:    radius,
		Positions: make([]Position, len(order)),
	}

	for k, idx := range order {
		angle := float64(k)/float64(len(order))*math.Pi*2 - math.Pi/2
		l.Positions[k] = Position{
			Index: idx,
			Angle: angle,
			X:     l.CenterX + radius*math.Cos(angle),
			Y:     l.CenterY + radius*math.Sin(angle),
		}
	}
	return l
}

// Find returns the position of class index.
func (l Layout) Find(index int) (Position, bool) {
	for _, p := range l.Positions {
		if p.Index == index {
			return p, true
		}
	}
	return Position{}, false
}

// Segment is a drawable line for one directional edge.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// EdgeSegment returns the line for e, shifted 8px perpendicular to the chord
// between its endpoints.
func (l Layout) EdgeSegment(e Edge) (Segment, bool) {
	src, ok := l.Find(e.Source)
	if !ok {
		return Segment{}, false
	}
	tgt, ok := l.Find(e.Target)
	if !ok {
		return Segment{}, false
	}

	dx := tgt.X - src.X
	dy := tgt.Y - src.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		length = 1
	}

	offset := float64(edgeOffset)
	if e.Source > e.Target {
		offset = -offset
	}
	ox := -dy / length * offset
	oy := dx / length * offset

	return Segment{
		X1: src.X + ox,
		Y1: src.Y + oy,
		X2: tgt.X + ox,
		Y2: tgt.Y + oy,
	}, true
}
