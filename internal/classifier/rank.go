package classifier

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/JaimeStill/wayfinder/internal/confusion"
)

// Prediction is one ranked class probability.
type Prediction struct {
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Prob  float64 `json:"prob"`
	// Overall is the joint probability child × parent for group refinements.
	Overall  *float64     `json:"overall,omitempty"`
	Children []Prediction `json:"children,omitempty"`
}

// Rank pairs probabilities with class names and sorts them descending.
// Classes beyond the vector get probability 0; outputs without a name are
// called "Class <i>". Ties keep output order.
func Rank(probs []float32, classes []string) []Prediction {
	n := max(len(probs), len(classes))
	out := make([]Prediction, n)
	for i := range n {
		name := fmt.Sprintf("Class %d", i)
		if i < len(classes) && classes[i] != "" {
			name = classes[i]
		}
		var p float64
		if i < len(probs) {
			p = float64(probs[i])
		}
		out[i] = Prediction{
			Index: i,
			Name:  name,
			Label: confusion.ShortenLabel(name, confusion.LabelBudget),
			Prob:  p,
		}
	}
	slices.SortStableFunc(out, func(a, b Prediction) int {
		return cmp.Compare(b.Prob, a.Prob)
	})
	return out
}

// Refine attaches child predictions to parent, scaling each child's overall
// probability by the parent's.
func Refine(parent Prediction, children []Prediction) Prediction {
	parent.Children = make([]Prediction, len(children))
	for i, c := range children {
		overall := c.Prob * parent.Prob
		c.Overall = &overall
		parent.Children[i] = c
	}
	return parent
}
