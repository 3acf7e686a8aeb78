package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/practicemap/practicemap/pkg/adoption"
	"github.com/practicemap/practicemap/pkg/cache"
	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/config"
	"github.com/practicemap/practicemap/pkg/errors"
	"github.com/practicemap/practicemap/pkg/render"
	"github.com/practicemap/practicemap/pkg/tree"
)

// renderCommand creates the render command for producing tree diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		input    string
		output   string
		format   string
		detailed bool
		noCache  bool
		withSt   bool
	)

	cmd := &cobra.Command{
		Use:   "render <practice-id>",
		Short: "Render a practice tree as a diagram",
		Long: `Render a practice tree as a diagram.

The materialized tree is converted to Graphviz DOT and optionally rendered
to SVG. Category determines node color; with --state, adopted practices get
a highlighted outline.

Rendered SVGs are cached by catalog content hash, so repeated renders of an
unchanged catalog are free.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], input, output, format, detailed, withSt, noCache)
		},
	}

	cmd.Flags().StringVarP(&input, "catalog", "f", "", "catalog file (default: from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <practice-id>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "t", "svg", "output format: svg, dot")
	cmd.Flags().BoolVarP(&detailed, "details", "d", false, "include level, category, and maturity in labels")
	cmd.Flags().BoolVar(&withSt, "state", false, "highlight adopted practices")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, rootID, input, output, format string, detailed, withState, noCache bool) error {
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

	root := tree.Build(cat, rootID)
	if root == nil {
		return errors.New(errors.ErrCodePracticeNotFound, "practice %q not found in %s", rootID, input)
	}

	opts := render.Options{Detailed: detailed}
	if withState {
		store, err := adoption.NewFileStateStore(cfg.State.Path, c.Logger)
		if err != nil {
			return err
		}
		loaded, _ := store.Load()
		opts.Adopted = adoption.FilterValid(loaded, adoption.NewSet(idsOf(cat)...))
	}

	dot := render.ToDOT(root, opts)

	var body []byte
	cacheHit := false
	switch format {
	case "dot":
		body = []byte(dot)
	case "svg":
		body, cacheHit, err = c.renderSVG(ctx, cfg, cat.Hash(), dot, noCache)
		if err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want svg or dot)", format)
	}

	if output == "" {
		output = rootID + "." + format
	}
	if err := os.WriteFile(output, body, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Rendered %s", rootID)
	printFile(output)
	status := "fresh"
	if cacheHit {
		status = "cached"
	}
	printDetail("%d practices · %s", tree.Count(root), status)
	return nil
}

// renderSVG renders DOT to SVG, consulting the cache first. The key includes
// the DOT text hash so option changes miss cleanly.
func (c *CLI) renderSVG(ctx context.Context, cfg *config.Config, catalogHash, dot string, noCache bool) ([]byte, bool, error) {
	store := c.newCache(ctx, cfg)
	if noCache {
		store = cache.NewNullCache()
	}
	defer store.Close()

	key := cache.ResponseKey(catalogHash, "svg:"+cache.Hash([]byte(dot)))
	if body, hit, err := store.Get(ctx, key); err == nil && hit {
		return body, true, nil
	}

	p := newProgress(c.Logger)
	body, err := render.RenderSVG(ctx, dot)
	if err != nil {
		return nil, false, fmt.Errorf("render svg: %w", err)
	}
	p.done(fmt.Sprintf("Rendered %s", humanSize(len(body))))

	if err := store.Set(ctx, key, body, 0); err != nil {
		c.Logger.Warn("cache write failed", "err", err)
	}
	return body, false, nil
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
