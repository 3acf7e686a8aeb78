package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/errors"
)

// validateCommand creates the validate command for checking authored catalogs.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [catalog.json]",
		Short: "Validate a practice catalog",
		Long: `Validate a practice catalog.

Runs every structural check: unique IDs, kebab-case ID format, resolvable
dependency references, no self-dependencies, known categories, an acyclic
dependency graph, and the presence of a root practice. All problems are
reported in one pass.

With no argument the catalog path from the configuration is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.catalogPath(args)
			if err != nil {
				return err
			}
			return c.runValidate(path)
		},
	}
}

// catalogPath resolves the catalog argument, falling back to configuration.
func (c *CLI) catalogPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Catalog, nil
}

func (c *CLI) runValidate(path string) error {
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}

	p := newProgress(c.Logger)
	result := catalog.Validate(cat)
	p.done(fmt.Sprintf("Checked %d practices, %d dependencies", len(cat.Practices), len(cat.Dependencies)))

	if result.Valid {
		printSuccess("Catalog is valid")
		printDetail("Practices: %d", len(cat.Practices))
		printDetail("Dependencies: %d", len(cat.Dependencies))
		printDetail("Roots: %d", len(cat.Roots()))
		printNewline()
		printNextStep("Explore the catalog", "practicemap tree -f "+path)
		return nil
	}

	printError("Catalog has %d problems", len(result.Errors))
	byKind := map[catalog.ErrorKind][]catalog.ValidationError{}
	var order []catalog.ErrorKind
	for _, e := range result.Errors {
		if _, ok := byKind[e.Kind]; !ok {
			order = append(order, e.Kind)
		}
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}
	for _, kind := range order {
		printNewline()
		printInfo("%s", kind)
		for _, e := range byKind[kind] {
			printDetail("%s", e.Message)
		}
	}

	return errors.New(errors.ErrCodeInvalidCatalog, "catalog %s failed validation", path)
}
