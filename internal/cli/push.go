package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/repo"
)

// pushCommand creates the push command for publishing a catalog to MongoDB.
func (c *CLI) pushCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Publish the catalog file to MongoDB",
		Long: `Publish the catalog file to MongoDB.

The catalog is validated locally and then upserted as the named catalog
document in the configured database. Hosted deployments running 'serve
--mongo' pick it up on their next reload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPush(cmd.Context(), input)
		},
	}

	cmd.Flags().StringVarP(&input, "catalog", "f", "", "catalog file (default: from config)")
	return cmd
}

func (c *CLI) runPush(ctx context.Context, input string) error {
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

	p := newProgress(c.Logger)
	r, err := repo.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Name)
	if err != nil {
		return err
	}
	defer r.Close(context.Background())

	if err := r.Store(ctx, cat); err != nil {
		return err
	}
	p.done("Pushed catalog")

	printSuccess("Published %s", input)
	printDetail("Database: %s", cfg.Mongo.Database)
	printDetail("Catalog: %s", cfg.Mongo.Name)
	printDetail("Practices: %d", len(cat.Practices))
	return nil
}
