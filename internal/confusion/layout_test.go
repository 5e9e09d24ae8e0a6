package confusion_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/wayfinder/internal/confusion"
)

func TestCircularLayout_Geometry(t *testing.T) {
	l := confusion.CircularLayout([]int{7, 3, 5, 1}, 900)

	require.Equal(t, 900.0, l.Width)
	require.Equal(t, 880.0, l.Height)
	require.InDelta(t, 278.8, l.Radius, 1e-9)
	require.Len(t, l.Positions, 4)

	top := l.Positions[0]
	require.Equal(t, 7, top.Index)
	require.InDelta(t, -math.Pi/2, top.Angle, 1e-12)
	require.InDelta(t, 450, top.X, 1e-9)
	require.InDelta(t, 440-278.8, top.Y, 1e-9)

	right := l.Positions[1]
	require.InDelta(t, 450+278.8, right.X, 1e-9)
	require.InDelta(t, 440, right.Y, 1e-9)
}

func TestCircularLayout_MinimumRadius(t *testing.T) {
	l := confusion.CircularLayout([]int{0, 1}, 300)

	require.Equal(t, 880.0, l.Height)
	require.Equal(t, 190.0, l.Radius)
}

func TestCircularLayout_DefaultWidth(t *testing.T) {
	l := confusion.CircularLayout([]int{0}, 0)
	require.Equal(t, float64(confusion.DefaultGraphWidth), l.Width)
}

func TestLayout_EdgeSegment(t *testing.T) {
	l := confusion.Layout{Positions: []confusion.Position{
		{Index: 0, X: 0, Y: 0},
		{Index: 1, X: 10, Y: 0},
	}}

	fwd, ok := l.EdgeSegment(confusion.Edge{Source: 0, Target: 1})
	require.True(t, ok)
	require.Equal(t, confusion.Segment{X1: 0, Y1: 8, X2: 10, Y2: 8}, fwd)

	rev, ok := l.EdgeSegment(confusion.Edge{Source: 1, Target: 0})
	require.True(t, ok)
	require.InDelta(t, 10, rev.X1, 1e-12)
	require.InDelta(t, 8, rev.Y1, 1e-12)
	require.InDelta(t, 0, rev.X2, 1e-12)

	_, ok = l.EdgeSegment(confusion.Edge{Source: 0, Target: 9})
	require.False(t, ok)
}
