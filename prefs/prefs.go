// Package prefs persists the one piece of client state that survives a
// restart: the UI theme. Everything else lives in the in-memory store.
package prefs

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Theme is the persisted UI theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type prefsFile struct {
	Theme Theme `yaml:"theme"`
}

// Store reads and writes the preference file. The zero value is unusable;
// construct with NewStore.
type Store struct {
	path string
}

// NewStore binds a store to a file path. The file and its directory are
// created lazily on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Theme returns the persisted theme, or ThemeLight when the file is missing,
// unreadable, or holds an unknown value.
func (s *Store) Theme() Theme {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return ThemeLight
	}
	var pf prefsFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return ThemeLight
	}
	if pf.Theme != ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// SetTheme persists the theme, creating the directory if needed.
func (s *Store) SetTheme(t Theme) error {
	if t != ThemeDark {
		t = ThemeLight
	}
	b, err := yaml.Marshal(prefsFile{Theme: t})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, b, 0o644)
}
