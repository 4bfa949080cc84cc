// infra/memory/preference_store.memory.go
package memory

import (
	"sync"

	"github.com/vuthysan/school-management-system-sub000/ports/prefs"
)

// PreferenceStore keeps the preferred school in process memory.
type PreferenceStore struct {
	mu     sync.RWMutex
	school string
}

func NewPreferenceStore() *PreferenceStore { return &PreferenceStore{} }

var _ prefs.PreferenceStore = (*PreferenceStore)(nil)

func (s *PreferenceStore) PreferredSchool() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.school, nil
}

func (s *PreferenceStore) SetPreferredSchool(id string) error {
	s.mu.Lock()
	s.school = id
	s.mu.Unlock()
	return nil
}
