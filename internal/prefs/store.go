// Package prefs persists the simulation-mode preference.
//
// The store is the only writer of its record. A toggle is written to disk
// before Toggle returns, so a fresh Open in a later session reads the same
// value this session reports.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// StorageKey names the durable record.
const StorageKey = "simulation-storage"

type record struct {
	IsEnabled bool `json:"isEnabled"`
}

type Store struct {
	mu      sync.RWMutex
	path    string
	enabled bool
}

// DefaultDir is where the record lives when no directory is configured.
func DefaultDir(appName string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// PathIn returns the record path inside dir.
func PathIn(dir string) string {
	return filepath.Join(dir, StorageKey+".json")
}

// Open loads the record at path. A missing or unreadable-as-JSON record means
// the default (real backend).
func Open(path string) (*Store, error) {
	s := &Store{path: filepath.Clean(path)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("reading %s: %w", StorageKey, err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		// Corrupt record: fall back to the default rather than failing startup.
		return s, nil
	}
	s.enabled = rec.IsEnabled
	return s, nil
}

// Path is the location of the durable record.
func (s *Store) Path() string {
	return s.path
}

// Get reports whether the simulated backend is selected.
func (s *Store) Get() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// Toggle flips the preference and persists it. If the write fails the
// preference keeps its previous value.
func (s *Store) Toggle() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := !s.enabled
	if err := s.saveLocked(record{IsEnabled: next}); err != nil {
		return s.enabled, err
	}
	s.enabled = next
	return next, nil
}

func (s *Store) saveLocked(rec record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preference dir: %w", err)
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", StorageKey, err)
	}
	return os.Rename(tmp, s.path)
}
