package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/practicemap/practicemap/internal/server"
	"github.com/practicemap/practicemap/pkg/repo"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen string
		watch  bool
		mongo  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the practice catalog over HTTP",
		Long: `Serve the practice catalog over HTTP.

The API exposes the validated catalog, materialized practice trees with
optional layout ordering, and share links for adoption snapshots. The
catalog backend is the configured file by default, or MongoDB with --mongo.

With --watch the catalog file is reloaded on change; a reload that fails
validation keeps the previous catalog serving.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), listen, watch, mongo)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default: from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the catalog file on change")
	cmd.Flags().BoolVar(&mongo, "mongo", false, "serve the catalog stored in MongoDB")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, listen string, watch, useMongo bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if listen == "" {
		listen = cfg.Server.Listen
	}

	var r repo.Repository
	switch {
	case useMongo:
		mr, err := repo.NewMongoRepository(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Name)
		if err != nil {
			return err
		}
		defer mr.Close(context.Background())
		r = mr
	default:
		fr, err := repo.NewFileRepository(cfg.Catalog, c.Logger)
		if err != nil {
			return err
		}
		if watch {
			go func() {
				if err := fr.Watch(ctx); err != nil && ctx.Err() == nil {
					c.Logger.Warn("catalog watcher stopped", "err", err)
				}
			}()
		}
		r = fr
	}

	store := c.newCache(ctx, cfg)
	defer store.Close()

	srv := server.New(r, store, c.Logger, server.Options{
		ShareTTL: time.Duration(cfg.Server.ShareTTLHours) * time.Hour,
		CacheTTL: time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
	})
	return srv.ListenAndServe(ctx, listen)
}
