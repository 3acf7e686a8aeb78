// Package layout orders nodes within the levels of a materialized practice
// tree so the rendered connectors cross as little as possible.
//
// The optimizer is a barycenter heuristic: each sweep reorders one level by
// the mean position of each node's neighbors in the adjacent level,
// alternating sweep direction across iterations. It converges to a local
// optimum quickly and is deterministic for a given input and iteration
// count; it is not an exact minimum-crossing solver.
package layout

import (
	"maps"
	"slices"

	"github.com/practicemap/practicemap/pkg/tree"
)

// Levels maps a level number to the ordered nodes at that level, as produced
// by tree.Flatten. Each node's Dependencies point at its children one level
// below.
type Levels map[int][]*tree.Node

// Clone returns a copy with independently ordered level slices.
// The nodes themselves are shared.
func (l Levels) Clone() Levels {
	out := make(Levels, len(l))
	for level, nodes := range l {
		out[level] = slices.Clone(nodes)
	}
	return out
}

// LevelIDs returns the level numbers in ascending order.
func (l Levels) LevelIDs() []int {
	return slices.Sorted(maps.Keys(l))
}

// Barycentric reorders nodes within each level by the barycenter heuristic.
//
// Passes is the number of sweep iterations; each pass alternates direction
// (downward on even passes, upward on odd). Small values (1-5) capture most
// of the benefit; more passes trade compute for diminishing layout gains.
type Barycentric struct {
	// Passes is the iteration count. Values below 1 are treated as 1.
	Passes int
}

// Order returns a reordered copy of the input levels.
//
// The node multiset of every level is unchanged: no node is added, removed,
// or moved between levels, only the order within a level may differ. The
// input is never mutated.
func (b Barycentric) Order(levels Levels) Levels {
	out := levels.Clone()
	ids := out.LevelIDs()
	if len(ids) < 2 {
		return out
	}

	passes := b.Passes
	if passes < 1 {
		passes = 1
	}

	parents := parentMap(out)
	for pass := 0; pass < passes; pass++ {
		if pass%2 == 0 {
			// Downward: order each level by neighbors above.
			for i := 1; i < len(ids); i++ {
				reorder(out, ids[i], ids[i-1], parents, true)
			}
		} else {
			// Upward: order each level by neighbors below.
			for i := len(ids) - 2; i >= 0; i-- {
				reorder(out, ids[i], ids[i+1], parents, false)
			}
		}
	}
	return out
}

// reorder sorts the nodes of level by the mean position of their neighbors
// in the adjacent level. Nodes with no neighbor keep their current position
// as the sort key, and the sort is stable, so disconnected nodes do not
// drift.
func reorder(levels Levels, level, adjacent int, parents map[*tree.Node][]*tree.Node, useParents bool) {
	adjPos := make(map[*tree.Node]int, len(levels[adjacent]))
	for i, n := range levels[adjacent] {
		adjPos[n] = i
	}

	nodes := levels[level]
	type keyed struct {
		node *tree.Node
		bary float64
	}
	ks := make([]keyed, len(nodes))
	for i, n := range nodes {
		var neighbors []*tree.Node
		if useParents {
			neighbors = parents[n]
		} else {
			neighbors = n.Dependencies
		}

		sum, count := 0.0, 0
		for _, nb := range neighbors {
			if pos, ok := adjPos[nb]; ok {
				sum += float64(pos)
				count++
			}
		}
		bary := float64(i)
		if count > 0 {
			bary = sum / float64(count)
		}
		ks[i] = keyed{node: n, bary: bary}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.bary < b.bary:
			return -1
		case a.bary > b.bary:
			return 1
		default:
			return 0
		}
	})
	for i, k := range ks {
		nodes[i] = k.node
	}
}

// parentMap inverts the child pointers across all levels.
func parentMap(levels Levels) map[*tree.Node][]*tree.Node {
	parents := make(map[*tree.Node][]*tree.Node)
	for _, nodes := range levels {
		for _, n := range nodes {
			for _, child := range n.Dependencies {
				parents[child] = append(parents[child], n)
			}
		}
	}
	return parents
}

// GroupByCategory clusters same-category nodes adjacently within each level.
//
// This is a secondary, independent pass used as a visual aid alongside
// crossing minimization, not instead of it. Category blocks are ordered by
// first appearance in the level and the order within each block is
// preserved, so the pass is stable.
func GroupByCategory(levels Levels) Levels {
	out := make(Levels, len(levels))
	for level, nodes := range levels {
		grouped := make([]*tree.Node, 0, len(nodes))
		seen := make(map[string]bool)
		for _, n := range nodes {
			cat := string(n.Category)
			if seen[cat] {
				continue
			}
			seen[cat] = true
			for _, m := range nodes {
				if m.Category == n.Category {
					grouped = append(grouped, m)
				}
			}
		}
		out[level] = grouped
	}
	return out
}
