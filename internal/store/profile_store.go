package store

import (
	"fmt"
	"path/filepath"
	"sync"

	"cosmic/internal/domain"
)

const profileFile = "profile.json"

// ProfileFileStore persists the last-used profile to disk.
type ProfileFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewProfileFileStore returns a ProfileFileStore rooted at dir.
func NewProfileFileStore(dir string) *ProfileFileStore {
	return &ProfileFileStore{dir: dir}
}

// Path is the profile file location.
func (s *ProfileFileStore) Path() string { return filepath.Join(s.dir, profileFile) }

// SaveProfile replaces the stored profile.
func (s *ProfileFileStore) SaveProfile(p domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeJSON(s.Path(), p, 0o600); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// LoadProfile returns the stored profile; ok is false when none was saved.
func (s *ProfileFileStore) LoadProfile() (domain.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p domain.Profile
	ok, err := readJSON(s.Path(), &p)
	if err != nil {
		return domain.Profile{}, false, fmt.Errorf("load profile: %w", err)
	}
	return p, ok, nil
}

// Compile-time assertion that ProfileFileStore implements domain.ProfileStore.
var _ domain.ProfileStore = (*ProfileFileStore)(nil)
