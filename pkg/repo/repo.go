// Package repo is the sole data-access boundary for the practice catalog.
//
// Consumers (server, CLI, TUI) query practices and materialized trees
// through the Repository interface and never touch raw storage. Two
// backends exist: a file-backed repository over the authored JSON catalog
// and a MongoDB-backed repository for hosted deployments. Both load the
// catalog wholesale into an immutable in-memory snapshot - it is small and
// static by design.
package repo

import (
	"context"

	"github.com/practicemap/practicemap/pkg/catalog"
	"github.com/practicemap/practicemap/pkg/tree"
)

// Repository exposes the catalog query surface.
//
// A missing root or practice ID yields (nil, nil): an expected query
// outcome, not an error. Errors are reserved for storage failures.
type Repository interface {
	// Catalog returns the current immutable catalog snapshot.
	Catalog(ctx context.Context) (*catalog.Catalog, error)

	// PracticeTree materializes the deduplicated tree rooted at rootID.
	PracticeTree(ctx context.Context, rootID string) (*tree.Node, error)

	// FindByID returns a single practice by ID.
	FindByID(ctx context.Context, id string) (*catalog.Practice, error)

	// Hash returns the content hash of the current snapshot, used for
	// cache keys and ETags.
	Hash(ctx context.Context) (string, error)
}
