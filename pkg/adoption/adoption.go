// Package adoption tracks which practices a user has marked as adopted and
// computes adoption statistics over the dependency graph.
//
// The pure functions in this package never mutate their inputs; the one
// place mutable state lives is [Store], a single-owner cell wrapping an
// otherwise-immutable set.
package adoption

import (
	"maps"
	"math"
)

// Set is an adoption state: the IDs of practices marked adopted.
type Set map[string]struct{}

// NewSet builds a set from the given IDs.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in unspecified order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	return maps.Clone(s)
}

// Index maps a practice ID to the IDs it directly requires. It is the
// flattened view of the catalog's edge list used for transitive walks
// (see catalog.Catalog.DependencyIndex).
type Index map[string][]string

// Toggle flips membership of id and returns a new set.
// The original set is unchanged.
func Toggle(s Set, id string) Set {
	out := maps.Clone(s)
	if out == nil {
		out = Set{}
	}
	if out.Has(id) {
		delete(out, id)
	} else {
		out[id] = struct{}{}
	}
	return out
}

// CountAdopted counts, over the full transitive dependency closure of the
// given direct dependencies, how many are adopted.
//
// When index is nil or empty the walk degrades to the direct dependencies
// only - a deliberate cheaper mode for callers that have no flattened
// catalog at hand. The visited set both deduplicates practices reachable by
// multiple paths (each counts once) and bounds the walk on cyclic input that
// bypassed catalog validation.
func CountAdopted(direct []string, adopted Set, index Index) (adoptedCount, total int) {
	visited := make(map[string]bool)
	var walk func(ids []string)
	walk = func(ids []string) {
		for _, id := range ids {
			if id == "" || visited[id] {
				continue
			}
			visited[id] = true
			total++
			if adopted.Has(id) {
				adoptedCount++
			}
			if len(index) > 0 {
				walk(index[id])
			}
		}
	}
	walk(direct)
	return adoptedCount, total
}

// AdoptedDependencies is CountAdopted over loosely typed dependency entries,
// as found in tree payloads where a dependency may be a bare ID string or an
// object carrying an "id" field. Malformed entries are skipped.
func AdoptedDependencies(entries []any, adopted Set, index Index) (adoptedCount, total int) {
	return CountAdopted(DependencyIDs(entries), adopted, index)
}

// DependencyIDs extracts practice IDs from loosely typed dependency entries.
//
// Accepted forms: a bare string ID, a value implementing
// interface{ DependencyID() string }, or a map with a string "id" key.
// Nil entries and entries without a usable ID are dropped, not errors.
func DependencyIDs(entries []any) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		switch v := e.(type) {
		case nil:
			continue
		case string:
			if v != "" {
				ids = append(ids, v)
			}
		case interface{ DependencyID() string }:
			if id := v.DependencyID(); id != "" {
				ids = append(ids, id)
			}
		case map[string]any:
			if id, ok := v["id"].(string); ok && id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Percentage returns the adoption percentage rounded half-up to an integer.
// Zero or negative inputs yield 0; the result is clamped to 0..100.
func Percentage(adopted, total int) int {
	if adopted <= 0 || total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(adopted) / float64(total) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// FilterValid intersects candidate IDs with the set of IDs the current
// catalog actually contains. Case-sensitive. Used to sanitize externally
// supplied state (URL parameters, persisted files) so stale or tampered IDs
// are silently dropped. Nil inputs yield an empty set.
func FilterValid(candidates, valid Set) Set {
	out := Set{}
	if candidates == nil || valid == nil {
		return out
	}
	for id := range candidates {
		if valid.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}
