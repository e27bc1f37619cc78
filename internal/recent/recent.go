// Package recent keeps the most recently opened containers.
package recent

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/studiowebux/dbedit/internal/config"
)

// MaxFiles is the number of paths kept
const MaxFiles = 10

type state struct {
	Files []string `json:"files"`
}

// Manager persists the MRU list as JSON
type Manager struct {
	path  string
	files []string
}

// NewManager creates a manager backed by path. Call Load to read it.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads the list. A missing file is an empty list.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		m.files = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read recent files: %w", err)
	}

	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse recent files: %w", err)
	}
	m.files = s.Files
	if len(m.files) > MaxFiles {
		m.files = m.files[:MaxFiles]
	}
	return nil
}

// Add moves path to the front of the list, removing duplicates,
// and writes the list back
func (m *Manager) Add(path string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	newRecent := []string{path}
	for _, f := range m.files {
		if f != path {
			newRecent = append(newRecent, f)
		}
	}

	if len(newRecent) > MaxFiles {
		newRecent = newRecent[:MaxFiles]
	}

	m.files = newRecent
	return m.save()
}

// Remove drops path from the list, used when a recent file no longer opens
func (m *Manager) Remove(path string) error {
	kept := m.files[:0:0]
	for _, f := range m.files {
		if f != path {
			kept = append(kept, f)
		}
	}
	m.files = kept
	return m.save()
}

// List returns the paths, most recent first
func (m *Manager) List() []string {
	result := make([]string, len(m.files))
	copy(result, m.files)
	return result
}

func (m *Manager) save() error {
	data, err := json.MarshalIndent(state{Files: m.files}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recent files: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write recent files: %w", err)
	}
	return nil
}
