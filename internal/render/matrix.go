package render

import (
	"fmt"

	"github.com/JaimeStill/wayfinder/internal/confusion"
)

// Heatmap geometry.
const (
	cellSize          = 18
	matrixLabelMargin = 80
	matrixTopMargin   = 70
	matrixPadding     = 20
)

// MatrixHeatmap draws the confusion sub-matrix of classes, colored by row
// percentage. Column labels are rotated above the grid.
func MatrixHeatmap(c Canvas, classes []confusion.ClassRecord, m *confusion.Matrix) error {
	if len(classes) == 0 {
		return Insufficient(c, confusion.ErrNoCandidates, 0)
	}

	n := len(classes)
	size := float64(cellSize * n)
	c.Start(matrixLabelMargin+size+matrixPadding, matrixTopMargin+size+matrixPadding)

	for idx, rec := range classes {
		x := float64(matrixLabelMargin + idx*cellSize + 4)
		c.Text(x, matrixTopMargin-10, rec.Short, Style{FontSize: 10, Rotate: -45})
	}
	for idx, rec := range classes {
		c.Text(10, float64(matrixTopMargin+idx*cellSize+12), rec.Short, Style{FontSize: 10})
	}

	sub := m.Sub(confusion.Indices(classes))
	for i, row := range sub {
		total := classes[i].Total
		for j, count := range row {
			pct := 0.0
			if total > 0 {
				pct = float64(count) / float64(total)
			}
			tip := fmt.Sprintf("True: %s\nPred: %s\nCount: %d\nRow pct: %.2f%%",
				classes[i].Short, classes[j].Short, count, pct*100)

			c.BeginGroup(Group{Tooltip: tip})
			c.Rect(
				float64(matrixLabelMargin+j*cellSize),
				float64(matrixTopMargin+i*cellSize),
				cellSize, cellSize,
				Style{Fill: Blues.Hex(pct), Stroke: ColorSeparator, StrokeWidth: 0.5},
			)
			c.EndGroup()
		}
	}

	return c.End()
}
