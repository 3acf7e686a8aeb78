package adoption

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/practicemap/practicemap/pkg/state"
)

// FileStateStore persists adoption state as a JSON array in a single file,
// the CLI analog of browser local storage.
//
// Absence of the file is a valid "no prior state" signal, distinct from an
// empty array. All read and write failures (missing directory, permissions,
// full disk) degrade to acting as if storage were empty - they are logged at
// warning level and never propagate across the store boundary.
type FileStateStore struct {
	path   string
	logger *log.Logger
}

// NewFileStateStore creates a store writing to path.
// If path is empty, defaults to ~/.config/practicemap/state.json.
func NewFileStateStore(path string, logger *log.Logger) (*FileStateStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		path = filepath.Join(home, ".config", "practicemap", "state.json")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &FileStateStore{path: path, logger: logger}, nil
}

// Path returns the state file location.
func (s *FileStateStore) Path() string { return s.path }

// Load reads the persisted state.
//
// The second result reports whether prior state existed. Corrupt or
// unreadable files load as empty state with a warning.
func (s *FileStateStore) Load() (Set, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cannot read adoption state, starting empty", "path", s.path, "err", err)
		}
		return Set{}, false
	}
	return Set(state.UnmarshalStorage(data)), true
}

// Save writes the state as a single atomic file replace.
func (s *FileStateStore) Save(set Set) error {
	data, err := state.MarshalStorage(set)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Clear removes the persisted state entirely.
func (s *FileStateStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}
