// infra/prefs/file_store.prefs.go
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	prefsport "github.com/vuthysan/school-management-system-sub000/ports/prefs"
)

// document is the on-disk shape. Kept as a struct so more preferences can
// ride along later without breaking existing files.
type document struct {
	PreferredSchool string `json:"preferredSchool"`
}

// FileStore persists preferences as a small JSON document. Reads tolerate a
// missing file (no preference yet); writes create parent directories.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ prefsport.PreferenceStore = (*FileStore)(nil)

func (s *FileStore) PreferredSchool() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read preferences: %w", err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("decode preferences: %w", err)
	}
	return doc.PreferredSchool, nil
}

func (s *FileStore) SetPreferredSchool(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.MarshalIndent(document{PreferredSchool: id}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create preferences dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
