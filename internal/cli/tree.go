package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/practicemap/practicemap/pkg/adoption"
	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/errors"
	"github.com/practicemap/practicemap/pkg/tree"
)

// treeCommand creates the tree command for printing a practice tree.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		input       string
		withState   bool
		rootID      string
		listRoots   bool
		showDetails bool
	)

	cmd := &cobra.Command{
		Use:   "tree [practice-id]",
		Short: "Print the dependency tree of a practice",
		Long: `Print the dependency tree of a practice.

The catalog's dependency graph is materialized into a tree rooted at the
given practice. A practice reachable along several paths appears exactly
once, at the deepest level any path reaches it.

With --state, locally tracked adoption is shown per practice along with
transitive adoption counts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				rootID = args[0]
			}
			return c.runTree(input, rootID, listRoots, withState, showDetails)
		},
	}

	cmd.Flags().StringVarP(&input, "catalog", "f", "", "catalog file (default: from config)")
	cmd.Flags().BoolVar(&withState, "state", false, "mark adopted practices and show adoption stats")
	cmd.Flags().BoolVar(&listRoots, "roots", false, "list root practices instead of printing a tree")
	cmd.Flags().BoolVarP(&showDetails, "details", "d", false, "include category and maturity per practice")

	return cmd
}

func (c *CLI) runTree(input, rootID string, listRoots, withState, showDetails bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if input == "" {
		input = cfg.Catalog
	}

	cat, err := catalog.LoadFile(input)
	if err != nil {
		return err
	}

	if listRoots {
		for _, p := range cat.Roots() {
			printKeyValue(p.ID, p.Name)
		}
		return nil
	}

	if rootID == "" {
		roots := cat.Roots()
		if len(roots) == 0 {
			return errors.New(errors.ErrCodeInvalidCatalog, "catalog has no root practice")
		}
		rootID = roots[0].ID
	}

	root := tree.Build(cat, rootID)
	if root == nil {
		return errors.New(errors.ErrCodePracticeNotFound, "practice %q not found in %s", rootID, input)
	}

	var adopted adoption.Set
	if withState {
		store, err := adoption.NewFileStateStore(cfg.State.Path, c.Logger)
		if err != nil {
			return err
		}
		loaded, _ := store.Load()
		valid := adoption.NewSet(idsOf(cat)...)
		adopted = adoption.FilterValid(loaded, valid)
	}

	printTree(root, "", true, adopted, withState, showDetails)

	if withState {
		index := adoption.Index(cat.DependencyIndex())
		got, total := adoption.CountAdopted(childIDs(root), adopted, index)
		printNewline()
		printInfo("Adoption: %d/%d practices (%d%%)", got, total, adoption.Percentage(got, total))
	}
	return nil
}

// printTree renders the tree with box-drawing connectors.
func printTree(n *tree.Node, prefix string, last bool, adopted adoption.Set, withState, showDetails bool) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if last {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	if prefix == "" && n.Level == 0 {
		connector = ""
		childPrefix = ""
	}

	label := n.Name
	if showDetails {
		detail := string(n.Category)
		if n.MaturityLevel != nil {
			detail += fmt.Sprintf(", maturity %d", *n.MaturityLevel)
		}
		label += " " + StyleDim.Render("("+detail+")")
	}
	if withState {
		mark := StyleDim.Render("○")
		if adopted.Has(n.ID) {
			mark = StyleAdopted.Render("●")
		}
		label = mark + " " + label
	}

	fmt.Println(prefix + connector + label)
	for i, child := range n.Dependencies {
		printTree(child, childPrefix, i == len(n.Dependencies)-1, adopted, withState, showDetails)
	}
}

func idsOf(cat *catalog.Catalog) []string {
	ids := make([]string, len(cat.Practices))
	for i, p := range cat.Practices {
		ids[i] = p.ID
	}
	return ids
}

func childIDs(root *tree.Node) []string {
	ids := make([]string, len(root.Dependencies))
	for i, d := range root.Dependencies {
		ids[i] = d.ID
	}
	return ids
}
