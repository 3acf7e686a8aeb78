package catalog

import (
	"fmt"
	"slices"

	"github.com/practicemap/practicemap/pkg/errors"
)

// =============================================================================
// Validation Results
// =============================================================================

// ErrorKind identifies a class of structural catalog problem.
type ErrorKind string

const (
	KindDuplicateIDs     ErrorKind = "duplicate-ids"
	KindInvalidEntry     ErrorKind = "invalid-entry"
	KindInvalidReference ErrorKind = "invalid-reference"
	KindSelfDependency   ErrorKind = "self-dependency"
	KindInvalidCategory  ErrorKind = "invalid-category"
	KindCycle            ErrorKind = "cycle"
	KindMissingRoot      ErrorKind = "missing-root"
)

// ValidationError describes one structural problem in an authored catalog.
// Validation errors are data, not Go errors: callers collect and report them
// in one pass rather than aborting on the first.
type ValidationError struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	PracticeID string    `json:"practiceId,omitempty"`
	Category   Category  `json:"category,omitempty"`
	Duplicates []string  `json:"duplicates,omitempty"`
	// Cycle holds the ordered practice IDs from the first occurrence back to
	// the revisit, e.g. ["a", "b", "a"].
	Cycle []string `json:"cycle,omitempty"`
}

// String renders the error for CLI reporting.
func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Result is the outcome of one validation check, or the union of several.
type Result struct {
	Valid  bool              `json:"isValid"`
	Errors []ValidationError `json:"errors"`
}

func valid() Result { return Result{Valid: true} }

func invalid(errs ...ValidationError) Result {
	return Result{Valid: false, Errors: errs}
}

// Merge unions this result with others. The merged result is valid only when
// every input is.
func (r Result) Merge(others ...Result) Result {
	out := r
	for _, o := range others {
		out.Valid = out.Valid && o.Valid
		out.Errors = append(out.Errors, o.Errors...)
	}
	return out
}

// =============================================================================
// Validate - Run All Checks
// =============================================================================

// Validate runs every structural check and unions the results.
//
// The checks are independent: callers that trust parts of the data (e.g.
// CI-validated catalogs reloaded at runtime) can run a subset directly and
// skip the more expensive cycle detection. Validate never mutates the
// catalog and has no side effects.
func Validate(c *Catalog) Result {
	return ValidateEntries(c).Merge(
		ValidateUniqueIDs(c),
		ValidateReferences(c),
		ValidateNoSelfDependencies(c),
		ValidateCategories(c),
		ValidateNoCycles(c),
		ValidateHasRoot(c),
	)
}

// =============================================================================
// Individual Checks
// =============================================================================

// ValidateEntries checks per-practice field constraints: kebab-case IDs and
// the presence of at least one requirement and one benefit.
func ValidateEntries(c *Catalog) Result {
	var errs []ValidationError
	for _, p := range c.Practices {
		if err := errors.ValidatePracticeID(p.ID); err != nil {
			errs = append(errs, ValidationError{
				Kind:       KindInvalidEntry,
				Message:    errors.UserMessage(err),
				PracticeID: p.ID,
			})
		}
		if len(p.Requirements) == 0 {
			errs = append(errs, ValidationError{
				Kind:       KindInvalidEntry,
				Message:    fmt.Sprintf("practice %q has no requirements", p.ID),
				PracticeID: p.ID,
			})
		}
		if len(p.Benefits) == 0 {
			errs = append(errs, ValidationError{
				Kind:       KindInvalidEntry,
				Message:    fmt.Sprintf("practice %q has no benefits", p.ID),
				PracticeID: p.ID,
			})
		}
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid()
}

// ValidateUniqueIDs checks that every practice ID appears exactly once.
func ValidateUniqueIDs(c *Catalog) Result {
	seen := make(map[string]int, len(c.Practices))
	for _, p := range c.Practices {
		seen[p.ID]++
	}

	var dups []string
	for _, p := range c.Practices {
		if seen[p.ID] > 1 && !slices.Contains(dups, p.ID) {
			dups = append(dups, p.ID)
		}
	}
	if len(dups) == 0 {
		return valid()
	}
	return invalid(ValidationError{
		Kind:       KindDuplicateIDs,
		Message:    fmt.Sprintf("duplicate practice ids: %v", dups),
		Duplicates: dups,
	})
}

// ValidateReferences checks that every dependency edge references existing
// practices and that no edge is authored twice.
func ValidateReferences(c *Catalog) Result {
	ids := make(map[string]bool, len(c.Practices))
	for _, p := range c.Practices {
		ids[p.ID] = true
	}

	var errs []ValidationError
	seen := make(map[Dependency]bool, len(c.Dependencies))
	for _, d := range c.Dependencies {
		if !ids[d.PracticeID] {
			errs = append(errs, ValidationError{
				Kind:       KindInvalidReference,
				Message:    fmt.Sprintf("dependency references unknown practice %q", d.PracticeID),
				PracticeID: d.PracticeID,
			})
		}
		if !ids[d.DependsOnID] {
			errs = append(errs, ValidationError{
				Kind:       KindInvalidReference,
				Message:    fmt.Sprintf("dependency of %q references unknown practice %q", d.PracticeID, d.DependsOnID),
				PracticeID: d.PracticeID,
			})
		}
		if seen[d] {
			errs = append(errs, ValidationError{
				Kind:       KindInvalidReference,
				Message:    fmt.Sprintf("duplicate dependency %s -> %s", d.PracticeID, d.DependsOnID),
				PracticeID: d.PracticeID,
			})
		}
		seen[d] = true
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid()
}

// ValidateNoSelfDependencies checks that no practice requires itself.
func ValidateNoSelfDependencies(c *Catalog) Result {
	var errs []ValidationError
	for _, d := range c.Dependencies {
		if d.PracticeID == d.DependsOnID {
			errs = append(errs, ValidationError{
				Kind:       KindSelfDependency,
				Message:    fmt.Sprintf("practice %q depends on itself", d.PracticeID),
				PracticeID: d.PracticeID,
			})
		}
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid()
}

// ValidateCategories checks that every practice carries a known category.
func ValidateCategories(c *Catalog) Result {
	var errs []ValidationError
	for _, p := range c.Practices {
		if !p.Category.IsValid() {
			errs = append(errs, ValidationError{
				Kind:       KindInvalidCategory,
				Message:    fmt.Sprintf("practice %q has unknown category %q", p.ID, p.Category),
				PracticeID: p.ID,
				Category:   p.Category,
			})
		}
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid()
}

// ValidateHasRoot checks that at least one root-typed practice exists.
func ValidateHasRoot(c *Catalog) Result {
	for _, p := range c.Practices {
		if p.IsRoot() {
			return valid()
		}
	}
	return invalid(ValidationError{
		Kind:    KindMissingRoot,
		Message: "catalog has no practice of type root",
	})
}

// ValidateNoCycles checks that the dependency graph is acyclic.
//
// It runs a depth-first search with white/gray/black coloring while tracking
// the current recursion path. Revisiting a gray node closes a cycle, which
// is reported as the ordered ID list from the first occurrence back to the
// revisit. The search continues after a hit, so multiple independent cycles
// are all reported; overlapping cycles in one strongly connected component
// yield the first cycle found.
func ValidateNoCycles(c *Catalog) Result {
	adj := c.DependencyIndex()

	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(c.Practices))
	var path []string
	var cycles [][]string

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		path = append(path, id)
		for _, next := range adj[id] {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				start := slices.Index(path, next)
				cycle := append(slices.Clone(path[start:]), next)
				cycles = append(cycles, cycle)
			}
		}
		path = path[:len(path)-1]
		color[id] = black
	}

	for _, p := range c.Practices {
		if color[p.ID] == white {
			dfs(p.ID)
		}
	}

	if len(cycles) == 0 {
		return valid()
	}
	errs := make([]ValidationError, len(cycles))
	for i, cy := range cycles {
		errs[i] = ValidationError{
			Kind:       KindCycle,
			Message:    fmt.Sprintf("dependency cycle: %v", cy),
			PracticeID: cy[0],
			Cycle:      cy,
		}
	}
	return invalid(errs...)
}
