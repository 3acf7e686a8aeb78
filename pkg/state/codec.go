// Package state encodes and decodes adoption state at the two I/O
// boundaries: the shareable URL query parameter and the local persistence
// file.
//
// The two boundaries deliberately use different encodings - base64 over a
// comma-joined sorted list for URLs (compact, copy-paste safe) and a plain
// JSON array for storage (readable, diffable) - and are kept as separate,
// narrowly scoped codec pairs rather than unified.
//
// This package has no dependency on graph topology. Malformed external input
// is never an error here: it decodes to the empty state with a single
// warning-level log, because a broken share link or corrupted state file
// must degrade to a working default, not a broken UI.
package state

import (
	"encoding/base64"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

var logger = log.Default()

// SetLogger replaces the warning logger used for malformed input.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Encode serializes an ID set for the URL boundary: IDs sorted, joined with
// commas, base64-encoded. The empty set encodes to the empty string, not a
// base64 artifact.
func Encode(ids map[string]struct{}) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	slices.Sort(sorted)
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(sorted, ",")))
}

// Decode is the inverse of Encode.
//
// Tolerant by contract: an empty string decodes to the empty set, malformed
// base64 decodes to the empty set with a warning log. Components are trimmed
// and empty components dropped before set construction.
func Decode(raw string) map[string]struct{} {
	out := map[string]struct{}{}
	if raw == "" {
		return out
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		logger.Warn("ignoring malformed adoption state", "err", err)
		return out
	}
	for _, part := range strings.Split(string(data), ",") {
		if id := strings.TrimSpace(part); id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}
