package confusion

import "slices"

// Edge is one directional view of a confusable class pair. CountIJ and RateIJ
// are oriented from Source to Target; CountJI and RateJI run the other way.
type Edge struct {
	Source  int     `json:"source"`
	Target  int     `json:"target"`
	CountIJ int     `json:"count_ij"`
	CountJI int     `json:"count_ji"`
	RateIJ  float64 `json:"rate_ij"`
	RateJI  float64 `json:"rate_ji"`
	AvgRate float64 `json:"avg_rate"`
}

// Graph is the confusion graph over the connected candidate classes.
// Order is the visiting order used for the circular layout.
type Graph struct {
	Nodes []int  `json:"nodes"`
	Order []int  `json:"order"`
	Edges []Edge `json:"edges"`
}

// BuildGraph builds the directional edge set between candidate classes and
// computes a greedy visiting order over the classes that have edges.
// Candidates are visited in ascending index order regardless of input order.
// The returned error is one of the insufficient-data errors when there is
// nothing to draw.
func BuildGraph(candidates []int, m *Matrix, totals []int, singleEdges bool) (*Graph, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if len(candidates) < 2 {
		return nil, ErrTooFewClasses
	}

	indices := slices.Clone(candidates)
	slices.Sort(indices)
	indices = slices.Compact(indices)

	minEdge := Filter{SingleEdges: singleEdges}.MinEdgeThreshold()
	edges := buildEdges(indices, m, totals, minEdge)
	if len(edges) == 0 {
		return nil, ErrNoEdges
	}

	nodes := edgeNodes(edges)
	if len(nodes) < 2 {
		return nil, ErrNoConnected
	}

	return &Graph{
		Nodes: nodes,
		Order: VisitOrder(nodes, m),
		Edges: edges,
	}, nil
}

func buildEdges(indices []int, m *Matrix, totals []int, minEdge int) []Edge {
	rate := func(count, i int) float64 {
		if i < len(totals) && totals[i] > 0 {
			return float64(count) / float64(totals[i])
		}
		return 0
	}

	var edges []Edge
	for a := 0; a < len(indices); a++ {
		for b := a + 1; b < len(indices); b++ {
			i, j := indices[a], indices[b]
			cij, cji := m.At(i, j), m.At(j, i)

			if max(cij, cji) < minEdge || cij+cji <= 0 {
				continue
			}

			rij := rate(cij, i)
			rji := rate(cji, j)
			avg := (rij + rji) / 2

			edges = append(edges,
				Edge{Source: i, Target: j, CountIJ: cij, CountJI: cji, RateIJ: rij, RateJI: rji, AvgRate: avg},
				Edge{Source: j, Target: i, CountIJ: cji, CountJI: cij, RateIJ: rji, RateJI: rij, AvgRate: avg},
			)
		}
	}
	return edges
}

func edgeNodes(edges []Edge) []int {
	seen := make(map[int]struct{})
	nodes := make([]int, 0)
	for _, e := range edges {
		for _, n := range [2]int{e.Source, e.Target} {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				nodes = append(nodes, n)
			}
		}
	}
	slices.Sort(nodes)
	return nodes
}

// Score is the symmetric combined confusion count between two classes.
func Score(m *Matrix, a, b int) int {
	return m.At(a, b) + m.At(b, a)
}

// VisitOrder returns a greedy nearest-neighbor ordering of nodes. It starts at
// the node with the highest total score against all others and repeatedly
// appends the unvisited node scoring highest against the last one. Ties go to
// the earliest node in the given order. The result is a permutation of nodes.
func VisitOrder(nodes []int, m *Matrix) []int {
	if len(nodes) == 0 {
		return nil
	}

	totals := make(map[int]int, len(nodes))
	for _, i := range nodes {
		sum := 0
		for _, j := range nodes {
			if i != j {
				sum += Score(m, i, j)
			}
		}
		totals[i] = sum
	}

	start := nodes[0]
	for _, i := range nodes[1:] {
		if totals[i] > totals[start] {
			start = i
		}
	}

	remaining := make([]int, 0, len(nodes)-1)
	for _, n := range nodes {
		if n != start {
			remaining = append(remaining, n)
		}
	}

	order := make([]int, 0, len(nodes))
	order = append(order, start)

	for len(remaining) > 0 {
		last := order[len(order)-1]
		next := -1
		best := -1
		for k, candidate := range remaining {
			if score := Score(m, last, candidate); score > best {
				best = score
				next = k
			}
		}
		if next < 0 {
			next = 0
		}
		order = append(order, remaining[next])
		remaining = slices.Delete(remaining, next, next+1)
	}

	return order
}
