package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/practicemap/practicemap/pkg/errors"
)

// rawCatalog mirrors Catalog with deferred decoding so malformed top-level
// shapes can be reported as schema errors before any semantic check runs.
type rawCatalog struct {
	Practices    json.RawMessage `json:"practices"`
	Dependencies json.RawMessage `json:"dependencies"`
	Metadata     map[string]any  `json:"metadata"`
}

// Load decodes a catalog from JSON.
//
// Load is the fail-fast half of the two-regime error design: a top-level
// shape problem (practices missing or not an array, dependencies not an
// array) returns an INVALID_CATALOG error immediately, because no semantic
// validation can proceed on it. Semantic problems (duplicate IDs, cycles)
// are left to Validate, which collects them as data.
func Load(r io.Reader) (*Catalog, error) {
	var raw rawCatalog
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "catalog is not valid JSON")
	}

	if len(raw.Practices) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCatalog, "catalog is missing required key %q", "practices")
	}
	if len(raw.Dependencies) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCatalog, "catalog is missing required key %q", "dependencies")
	}

	c := &Catalog{Metadata: raw.Metadata}
	if err := json.Unmarshal(raw.Practices, &c.Practices); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "%q must be an array of practices", "practices")
	}
	if err := json.Unmarshal(raw.Dependencies, &c.Dependencies); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "%q must be an array of edges", "dependencies")
	}
	return c, nil
}

// LoadFile reads and decodes a catalog from a JSON file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
