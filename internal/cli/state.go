package cli

import (
	"fmt"
	"net/url"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/practicemap/practicemap/pkg/adoption"
	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/errors"
	"github.com/practicemap/practicemap/pkg/state"
)

// stateCommand creates the state command group for managing adoption state.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage locally tracked adoption state",
	}

	cmd.AddCommand(c.stateShowCommand())
	cmd.AddCommand(c.stateURLCommand())
	cmd.AddCommand(c.stateImportCommand())
	cmd.AddCommand(c.stateClearCommand())
	cmd.AddCommand(c.statePathCommand())

	return cmd
}

// stateShowCommand creates the "state show" subcommand.
func (c *CLI) stateShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List adopted practices",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, set, err := c.loadState()
			if err != nil {
				return err
			}
			if len(set) == 0 {
				printInfo("No practices adopted")
				return nil
			}
			ids := set.IDs()
			slices.Sort(ids)
			for _, id := range ids {
				fmt.Println(StyleAdopted.Render("●") + " " + id)
			}
			printNewline()
			printDetail("%d practices adopted", len(ids))
			return nil
		},
	}
}

// stateURLCommand creates the "state url" subcommand, which converts between
// the shareable URL form and the local state.
func (c *CLI) stateURLCommand() *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the current adoption state as a shareable URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, set, err := c.loadState()
			if err != nil {
				return err
			}
			u, err := url.Parse(base)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse base URL %q", base)
			}
			fmt.Println(state.UpdateURL(u, set).String())
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "http://localhost:8080/", "base URL to attach the state to")
	return cmd
}

// stateImportCommand creates the "state import" subcommand. It accepts a URL
// carrying an encoded state and replaces the local state with it.
func (c *CLI) stateImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <url>",
		Short: "Replace local adoption state with the state encoded in a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse URL")
			}
			incoming, present := state.FromURL(u)
			if !present {
				return errors.New(errors.ErrCodeInvalidState, "URL carries no adoption state")
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := catalog.LoadFile(cfg.Catalog)
			if err != nil {
				return err
			}
			set := adoption.FilterValid(adoption.Set(incoming), adoption.NewSet(idsOf(cat)...))
			dropped := len(incoming) - len(set)

			store, err := adoption.NewFileStateStore(cfg.State.Path, c.Logger)
			if err != nil {
				return err
			}
			if err := store.Save(set); err != nil {
				return err
			}

			printSuccess("Imported %d practices", len(set))
			if dropped > 0 {
				printWarning("Dropped %d IDs not present in the catalog", dropped)
			}
			return nil
		},
	}
}

// stateClearCommand creates the "state clear" subcommand.
func (c *CLI) stateClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all locally tracked adoption state",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadStateStore()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			printSuccess("Adoption state cleared")
			return nil
		},
	}
}

// statePathCommand creates the "state path" subcommand.
func (c *CLI) statePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the state file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadStateStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, store.Path())
			return nil
		},
	}
}

// loadStateStore builds the file store from configuration.
func (c *CLI) loadStateStore() (*adoption.FileStateStore, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return adoption.NewFileStateStore(cfg.State.Path, c.Logger)
}

// loadState loads the persisted adoption state.
func (c *CLI) loadState() (*adoption.FileStateStore, adoption.Set, error) {
	store, err := c.loadStateStore()
	if err != nil {
		return nil, nil, err
	}
	set, _ := store.Load()
	return store, set, nil
}
