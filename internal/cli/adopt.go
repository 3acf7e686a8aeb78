package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/practicemap/practicemap/pkg/adoption"
	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/errors"
	"github.com/practicemap/practicemap/pkg/tree"
)

// adoptCommand creates the adopt command for toggling practice adoption.
func (c *CLI) adoptCommand() *cobra.Command {
	var (
		interactive bool
		rootID      string
	)

	cmd := &cobra.Command{
		Use:   "adopt [practice-id...]",
		Short: "Toggle adoption of practices",
		Long: `Toggle adoption of practices.

Each named practice is flipped: adopted practices are unmarked, unadopted
ones are marked. Unknown IDs are rejected before any change is written.

With --interactive, an explorer opens showing the dependency tree of a root
practice; space toggles adoption and the footer tracks transitive adoption
of the root's requirements.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return c.runAdoptTUI(rootID)
			}
			if len(args) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no practice IDs given (or use --interactive)")
			}
			return c.runAdopt(args)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the interactive adoption explorer")
	cmd.Flags().StringVarP(&rootID, "root", "r", "", "root practice for the explorer (default: first catalog root)")

	return cmd
}

func (c *CLI) runAdopt(ids []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cat, err := catalog.LoadFile(cfg.Catalog)
	if err != nil {
		return err
	}

	byID := cat.ByID()
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return errors.New(errors.ErrCodePracticeNotFound, "practice %q not found in catalog", id)
		}
	}

	fileStore, err := adoption.NewFileStateStore(cfg.State.Path, c.Logger)
	if err != nil {
		return err
	}
	loaded, _ := fileStore.Load()
	store := adoption.NewStore(adoption.FilterValid(loaded, adoption.NewSet(idsOf(cat)...)))

	for _, id := range ids {
		next := store.Toggle(id)
		if next.Has(id) {
			printSuccess("Adopted %s", id)
		} else {
			printInfo("Unadopted %s", id)
		}
	}

	if err := fileStore.Save(store.Snapshot()); err != nil {
		return err
	}
	printDetail("%d practices adopted", len(store.Snapshot()))
	return nil
}

// runAdoptTUI launches the interactive adoption explorer.
func (c *CLI) runAdoptTUI(rootID string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cat, err := catalog.LoadFile(cfg.Catalog)
	if err != nil {
		return err
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
		return errors.New(errors.ErrCodePracticeNotFound, "practice %q not found in catalog", rootID)
	}

	fileStore, err := adoption.NewFileStateStore(cfg.State.Path, c.Logger)
	if err != nil {
		return err
	}
	loaded, _ := fileStore.Load()
	store := adoption.NewStore(adoption.FilterValid(loaded, adoption.NewSet(idsOf(cat)...)))

	// Writes during the session are debounced; the final flush below is what
	// guarantees the last state lands on disk.
	persister := adoption.NewPersister(fileStore.Save, time.Duration(cfg.State.DebounceMS)*time.Millisecond, func(err error) {
		c.Logger.Warn("persist adoption state failed", "err", err)
	})
	store.Subscribe(persister.Notify)

	model := newAdoptModel(root, cat, store)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		persister.Flush()
		return err
	}
	persister.Flush()

	snap := store.Snapshot()
	got, total := adoption.CountAdopted(childIDs(root), snap, adoption.Index(cat.DependencyIndex()))
	printInfo("Adoption: %d/%d practices (%d%%)", got, total, adoption.Percentage(got, total))
	return nil
}
