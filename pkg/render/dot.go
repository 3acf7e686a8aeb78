// Package render draws materialized practice trees as node-link diagrams.
//
// Trees are first converted to Graphviz DOT, then rendered to SVG. Category
// determines fill color; adopted practices get a highlighted outline so a
// rendered tree doubles as an adoption progress snapshot.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/practicemap/practicemap/pkg/adoption"
	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/tree"
)

// Options configures DOT emission.
type Options struct {
	// Detailed includes level, category, and maturity in node labels.
	// When false, only the practice name is shown.
	Detailed bool

	// Adopted highlights the outlines of adopted practices.
	Adopted adoption.Set
}

// categoryFill maps practice categories to fill colors.
var categoryFill = map[catalog.Category]string{
	catalog.CategoryAutomation:                "lightblue",
	catalog.CategoryBehavior:                  "lightyellow",
	catalog.CategoryBehaviorEnabledAutomation: "palegreen",
	catalog.CategoryCore:                      "lightpink",
}

// ToDOT converts a materialized tree to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(root *tree.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph practices {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	tree.Walk(root, func(n *tree.Node) {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label, opts.Adopted)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	})

	buf.WriteString("\n")
	tree.Walk(root, func(n *tree.Node) {
		for _, child := range n.Dependencies {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, child.ID)
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *tree.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}

	parts := []string{
		fmt.Sprintf("level: %d", n.Level),
		fmt.Sprintf("category: %s", n.Category),
	}
	if n.MaturityLevel != nil {
		parts = append(parts, fmt.Sprintf("maturity: %d", *n.MaturityLevel))
	}
	return n.Name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *tree.Node, label string, adopted adoption.Set) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := categoryFill[n.Category]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	if adopted.Has(n.ID) {
		attrs = append(attrs, "penwidth=2.5", "color=\"darkgreen\"")
	}
	return attrs
}
