package render

import (
	"strings"
	"testing"

	"github.com/practicemap/practicemap/pkg/adoption"
	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/tree"
)

func sampleTree() *tree.Node {
	maturity := 3
	ci := &tree.Node{
		ID:            "ci",
		Name:          "Continuous Integration",
		Category:      catalog.CategoryAutomation,
		Level:         1,
		MaturityLevel: &maturity,
	}
	return &tree.Node{
		ID:           "cd",
		Name:         "Continuous Delivery",
		Category:     catalog.CategoryCore,
		Level:        0,
		Dependencies: []*tree.Node{ci},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleTree(), Options{})

	for _, want := range []string{
		"digraph practices {",
		`"cd" [label="Continuous Delivery"`,
		`"ci" [label="Continuous Integration"`,
		`"cd" -> "ci";`,
		`fillcolor="lightpink"`,  // core
		`fillcolor="lightblue"`,  // automation
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleTree(), Options{Detailed: true})

	for _, want := range []string{"level: 1", "category: automation", "maturity: 3"} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q", want)
		}
	}

	// The root has no maturity level; no line must be fabricated for it.
	if strings.Contains(dot, "level: 0\\ncategory: core\\nmaturity") {
		t.Error("maturity rendered for a practice without one")
	}
}

func TestToDOTAdoptedHighlight(t *testing.T) {
	dot := ToDOT(sampleTree(), Options{Adopted: adoption.NewSet("ci")})

	if !strings.Contains(dot, "penwidth=2.5") {
		t.Error("adopted practice not highlighted")
	}

	plain := ToDOT(sampleTree(), Options{})
	if strings.Contains(plain, "penwidth=2.5") {
		t.Error("highlight applied without adoption state")
	}
}
