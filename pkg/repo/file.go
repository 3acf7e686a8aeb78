package repo

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/errors"
	"github.com/practicemap/practicemap/pkg/tree"
)

// snapshot bundles a validated catalog with its content hash so both swap
// atomically on reload.
type snapshot struct {
	catalog *catalog.Catalog
	hash    string
}

// FileRepository serves an authored JSON catalog file from memory.
//
// The catalog is validated on load; a catalog that fails validation is
// rejected, never served. Reload swaps the snapshot atomically, so readers
// always observe a complete, validated catalog.
type FileRepository struct {
	path   string
	logger *log.Logger
	snap   atomic.Pointer[snapshot]
}

// NewFileRepository loads, validates, and serves the catalog at path.
func NewFileRepository(path string, logger *log.Logger) (*FileRepository, error) {
	if logger == nil {
		logger = log.Default()
	}
	r := &FileRepository{path: path, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads and re-validates the catalog file, swapping the snapshot
// on success. On failure the previous snapshot stays in service.
func (r *FileRepository) Reload() error {
	c, err := catalog.LoadFile(r.path)
	if err != nil {
		return err
	}
	if result := catalog.Validate(c); !result.Valid {
		for _, e := range result.Errors {
			r.logger.Error("catalog validation failed", "kind", e.Kind, "detail", e.Message)
		}
		return errors.New(errors.ErrCodeInvalidCatalog, "catalog %s has %d validation errors", r.path, len(result.Errors))
	}
	r.snap.Store(&snapshot{catalog: c, hash: c.Hash()})
	return nil
}

// Catalog returns the current snapshot.
func (r *FileRepository) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	return r.snap.Load().catalog, nil
}

// PracticeTree materializes the tree rooted at rootID.
// Returns (nil, nil) for an unknown root.
func (r *FileRepository) PracticeTree(ctx context.Context, rootID string) (*tree.Node, error) {
	return tree.Build(r.snap.Load().catalog, rootID), nil
}

// FindByID returns the practice with the given ID, or (nil, nil) if absent.
func (r *FileRepository) FindByID(ctx context.Context, id string) (*catalog.Practice, error) {
	return r.snap.Load().catalog.Find(id), nil
}

// Hash returns the content hash of the current snapshot.
func (r *FileRepository) Hash(ctx context.Context) (string, error) {
	return r.snap.Load().hash, nil
}

// Watch reloads the catalog when the underlying file changes, until ctx is
// cancelled. Events are debounced so editors that write in bursts trigger a
// single reload. A reload failure keeps serving the previous snapshot.
func (r *FileRepository) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(r.path); err != nil {
		return err
	}

	const debounce = 200 * time.Millisecond
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			if err := r.Reload(); err != nil {
				r.logger.Warn("catalog reload failed, keeping previous snapshot", "err", err)
				continue
			}
			r.logger.Info("catalog reloaded", "path", r.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("catalog watcher error", "err", err)
		}
	}
}

// Ensure FileRepository implements Repository.
var _ Repository = (*FileRepository)(nil)
