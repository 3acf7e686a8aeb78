package state

import (
	"encoding/json"
	"slices"
)

// MarshalStorage serializes an ID set for the persistence boundary: a plain
// JSON array of IDs, sorted for stable output. This is intentionally a
// different encoding from the URL form.
func MarshalStorage(ids map[string]struct{}) ([]byte, error) {
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	slices.Sort(sorted)
	return json.Marshal(sorted)
}

// UnmarshalStorage is the inverse of MarshalStorage.
//
// Corrupted JSON decodes to the empty set with a warning log; persistence
// reads must never fail the caller. Empty entries are dropped.
func UnmarshalStorage(data []byte) map[string]struct{} {
	out := map[string]struct{}{}
	if len(data) == 0 {
		return out
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		logger.Warn("ignoring corrupted adoption state file", "err", err)
		return out
	}
	for _, id := range ids {
		if id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}
