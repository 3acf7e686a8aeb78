// Package catalog defines the Continuous-Delivery practice catalog: a curated
// set of practices connected by directed "requires" edges forming a DAG.
//
// The catalog is authored as JSON, loaded wholesale into memory, and treated
// as an immutable snapshot for the lifetime of a process. Validation (see
// Validate) enforces the structural invariants that downstream consumers
// rely on; traversal code elsewhere still guards against cyclic input
// defensively rather than trusting them.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// PracticeType distinguishes tree roots from ordinary practices.
type PracticeType string

const (
	// TypeRoot marks a practice that anchors a tree traversal. Multiple
	// root-typed practices may exist as independent trees.
	TypeRoot PracticeType = "root"
	// TypePractice marks an ordinary catalog entry.
	TypePractice PracticeType = "practice"
)

// Category classifies a practice by the nature of the capability.
type Category string

const (
	CategoryAutomation                Category = "automation"
	CategoryBehavior                  Category = "behavior"
	CategoryBehaviorEnabledAutomation Category = "behavior-enabled-automation"
	CategoryCore                      Category = "core"
)

// Categories lists all valid category values.
var Categories = []Category{
	CategoryAutomation,
	CategoryBehavior,
	CategoryBehaviorEnabledAutomation,
	CategoryCore,
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	return slices.Contains(Categories, c)
}

// =============================================================================
// Practice - Catalog Entry
// =============================================================================

// Practice is one catalog entry: a CD capability or behavior node.
//
// Practices are immutable once constructed; transformations produce new
// values rather than mutating in place. MaturityLevel is a pointer so a
// missing level survives round-trips as nil instead of silently defaulting
// to zero.
type Practice struct {
	ID              string       `json:"id" bson:"id"`
	Name            string       `json:"name" bson:"name"`
	Description     string       `json:"description" bson:"description"`
	Type            PracticeType `json:"type" bson:"type"`
	Category        Category     `json:"category" bson:"category"`
	Requirements    []string     `json:"requirements" bson:"requirements"`
	Benefits        []string     `json:"benefits" bson:"benefits"`
	MaturityLevel   *int         `json:"maturityLevel,omitempty" bson:"maturity_level,omitempty"`
	QuickStartGuide string       `json:"quickStartGuide,omitempty" bson:"quick_start_guide,omitempty"`
}

// IsRoot reports whether the practice anchors a tree traversal.
func (p Practice) IsRoot() bool { return p.Type == TypeRoot }

// =============================================================================
// Dependency - Directed "Requires" Edge
// =============================================================================

// Dependency is a directed edge meaning "PracticeID requires DependsOnID".
type Dependency struct {
	PracticeID  string `json:"practice_id" bson:"practice_id"`
	DependsOnID string `json:"depends_on_id" bson:"depends_on_id"`
}

// =============================================================================
// Catalog
// =============================================================================

// Catalog is the full authored dataset: practices, dependency edges, and
// free-form metadata (title, version, attribution).
type Catalog struct {
	Practices    []Practice     `json:"practices" bson:"practices"`
	Dependencies []Dependency   `json:"dependencies" bson:"dependencies"`
	Metadata     map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// ByID builds a lookup map from practice ID to practice.
// Later duplicates overwrite earlier ones; run Validate first to reject
// catalogs with duplicate IDs.
func (c *Catalog) ByID() map[string]*Practice {
	m := make(map[string]*Practice, len(c.Practices))
	for i := range c.Practices {
		m[c.Practices[i].ID] = &c.Practices[i]
	}
	return m
}

// DependencyIndex builds a map from practice ID to the IDs it directly
// requires, in authored edge order.
func (c *Catalog) DependencyIndex() map[string][]string {
	idx := make(map[string][]string)
	for _, d := range c.Dependencies {
		idx[d.PracticeID] = append(idx[d.PracticeID], d.DependsOnID)
	}
	return idx
}

// Roots returns all practices of type root, in catalog order.
func (c *Catalog) Roots() []*Practice {
	var roots []*Practice
	for i := range c.Practices {
		if c.Practices[i].IsRoot() {
			roots = append(roots, &c.Practices[i])
		}
	}
	return roots
}

// Find returns the practice with the given ID, or nil if absent.
func (c *Catalog) Find(id string) *Practice {
	for i := range c.Practices {
		if c.Practices[i].ID == id {
			return &c.Practices[i]
		}
	}
	return nil
}

// Hash returns a stable SHA-256 hex digest of the catalog contents.
// Used as a cache key component and as the basis for HTTP ETags.
func (c *Catalog) Hash() string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
