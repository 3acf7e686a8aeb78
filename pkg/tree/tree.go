// Package tree materializes the flat practice catalog into a rooted tree for
// rendering.
//
// The catalog is a DAG, so a practice can be reachable from the root along
// several paths. The materialized tree shows each practice exactly once, at
// the deepest level any path reaches it: a requirement displayed at the last
// point it is needed never visually implies it is satisfied earlier in the
// traversal. Shallower occurrences are pruned; the deepest occurrence keeps
// its full subtree.
//
// Trees are built fresh per root query and never persisted.
package tree

import (
	"slices"

	"github.com/practicemap/practicemap/pkg/catalog"
)

// Node is one practice materialized into a rooted tree.
//
// MaturityLevel passes through as nil when the source practice has none; the
// gap is surfaced to the rendering layer instead of silently defaulting.
type Node struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Category         catalog.Category `json:"category"`
	Requirements     []string         `json:"requirements"`
	Benefits         []string         `json:"benefits"`
	MaturityLevel    *int             `json:"maturityLevel,omitempty"`
	QuickStartGuide  string           `json:"quickStartGuide,omitempty"`
	RequirementCount int              `json:"requirementCount"`
	BenefitCount     int              `json:"benefitCount"`
	Level            int              `json:"level"`
	Dependencies     []*Node          `json:"dependencies"`
}

// Build materializes the tree rooted at rootID.
//
// Returns nil when rootID is absent from the catalog - a missing root is a
// common, expected query outcome, not an error. Build tolerates cyclic input
// (a malformed catalog that bypassed validation) by treating a revisit on the
// current path as a terminal leaf rather than recursing forever.
func Build(c *catalog.Catalog, rootID string) *Node {
	byID := c.ByID()
	if _, ok := byID[rootID]; !ok {
		return nil
	}
	adj := c.DependencyIndex()

	depths := maxDepths(rootID, adj)
	emitted := make(map[string]bool)
	return expand(rootID, 0, byID, adj, depths, emitted)
}

// maxDepths computes, for every practice reachable from root, the greatest
// depth any path reaches it at. The path guard bounds recursion on cyclic
// input, where depth would otherwise grow without limit.
func maxDepths(root string, adj map[string][]string) map[string]int {
	depths := map[string]int{root: 0}
	path := make(map[string]bool)

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		path[id] = true
		for _, child := range adj[id] {
			if path[child] {
				continue
			}
			d := depth + 1
			if prev, ok := depths[child]; ok && d <= prev {
				continue
			}
			depths[child] = d
			walk(child, d)
		}
		delete(path, id)
	}
	walk(root, 0)
	return depths
}

// expand builds the node for id at the given depth, attaching only children
// whose deepest reachable level is exactly one below - the single point where
// each practice is emitted. The emitted set breaks ties between sibling
// branches that both reach a practice at its maximum depth.
func expand(id string, depth int, byID map[string]*catalog.Practice, adj map[string][]string, depths map[string]int, emitted map[string]bool) *Node {
	p := byID[id]
	emitted[id] = true

	n := &Node{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Category:         p.Category,
		Requirements:     slices.Clone(p.Requirements),
		Benefits:         slices.Clone(p.Benefits),
		MaturityLevel:    p.MaturityLevel,
		QuickStartGuide:  p.QuickStartGuide,
		RequirementCount: len(p.Requirements),
		BenefitCount:     len(p.Benefits),
		Level:            depth,
		Dependencies:     []*Node{},
	}

	for _, childID := range adj[id] {
		if emitted[childID] {
			continue
		}
		if _, ok := byID[childID]; !ok {
			// Dangling reference in an unvalidated catalog; skip.
			continue
		}
		if depths[childID] != depth+1 {
			// A deeper path will emit this practice.
			continue
		}
		n.Dependencies = append(n.Dependencies, expand(childID, depth+1, byID, adj, depths, emitted))
	}
	return n
}

// Flatten converts a materialized tree into a level-indexed view: level
// number to the nodes at that level, in depth-first traversal order.
//
// Because Build already applies deepest-wins deduplication, each node appears
// in exactly one level. Flatten is the input shape consumed by the layout
// optimizer.
func Flatten(root *Node) map[int][]*Node {
	levels := make(map[int][]*Node)
	if root == nil {
		return levels
	}

	var walk func(n *Node)
	walk = func(n *Node) {
		levels[n.Level] = append(levels[n.Level], n)
		for _, child := range n.Dependencies {
			walk(child)
		}
	}
	walk(root)
	return levels
}

// Walk visits every node in the tree in depth-first order.
func Walk(root *Node, visit func(*Node)) {
	if root == nil {
		return
	}
	visit(root)
	for _, child := range root.Dependencies {
		Walk(child, visit)
	}
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	n := 0
	Walk(root, func(*Node) { n++ })
	return n
}
