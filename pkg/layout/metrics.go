package layout

import (
	"math"
	"slices"

	"github.com/practicemap/practicemap/pkg/tree"
)

// TotalConnectionLength sums the Euclidean length of every parent-child
// connector, with node coordinates inferred as (index within level,
// level number x levelHeight).
//
// This is a fitness metric for comparing optimizer runs and for tests; it is
// not invoked during normal rendering.
func TotalConnectionLength(levels Levels, levelHeight float64) float64 {
	pos := make(map[*tree.Node]int)
	lvl := make(map[*tree.Node]int)
	for level, nodes := range levels {
		for i, n := range nodes {
			pos[n] = i
			lvl[n] = level
		}
	}

	total := 0.0
	for _, nodes := range levels {
		for _, n := range nodes {
			for _, child := range n.Dependencies {
				cp, ok := pos[child]
				if !ok {
					continue
				}
				dx := float64(pos[n] - cp)
				dy := float64(lvl[n]-lvl[child]) * levelHeight
				total += math.Hypot(dx, dy)
			}
		}
	}
	return total
}

// CountCrossings returns the total number of connector crossings between
// every pair of adjacent levels.
func CountCrossings(levels Levels) int {
	ids := levels.LevelIDs()
	crossings := 0
	for i := 0; i+1 < len(ids); i++ {
		crossings += CountLevelCrossings(levels[ids[i]], levels[ids[i+1]])
	}
	return crossings
}

// CountLevelCrossings counts connector crossings between two adjacent levels
// using a Fenwick tree for O(E log V) inversion counting.
//
// Two connectors (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2), i.e. they are an inversion in the sequence of target
// positions when edges are sorted by source position.
func CountLevelCrossings(upper, lower []*tree.Node) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := make(map[*tree.Node]int, len(lower))
	for i, n := range lower {
		lowerPos[n] = i
	}

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, n := range upper {
		for _, child := range n.Dependencies {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	// Sort edges by source position, then by target position.
	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// Count edges seen so far with target <= e.lower.
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
