package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store owns the persisted preferences. A Store with an empty path keeps
// preferences in memory only.
type Store struct {
	path string

	mu        sync.RWMutex
	prefs     Preferences
	listeners []func(Preferences)
}

// Open loads preferences from path. A missing file yields defaults; the file
// is only created on the first Set.
func Open(path string) (*Store, error) {
	s := &Store{path: path, prefs: Default()}
	if path == "" {
		return s, nil
	}
	p, err := readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	s.prefs = p
	return s, nil
}

// NewMemoryStore returns a Store that never touches disk.
func NewMemoryStore(p Preferences) *Store {
	n, err := p.Normalize()
	if err != nil {
		n = Default()
	}
	return &Store{prefs: n}
}

func readFile(path string) (Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preferences{}, err
	}
	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("parse preferences %q: %w", path, err)
	}
	return p.Normalize()
}

// Path returns the backing file, or "" for in-memory stores.
func (s *Store) Path() string { return s.path }

// Get returns the current preferences.
func (s *Store) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// OnChange registers fn to be called after every effective change.
func (s *Store) OnChange(fn func(Preferences)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Set validates, persists and publishes p.
func (s *Store) Set(p Preferences) error {
	n, err := p.Normalize()
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.path != "" {
		if err := writeFile(s.path, n); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	changed := s.prefs != n
	s.prefs = n
	listeners := append([]func(Preferences){}, s.listeners...)
	s.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(n)
		}
	}
	return nil
}

// SetLanguage changes only the language channel.
func (s *Store) SetLanguage(l Language) error {
	p := s.Get()
	p.Language = l
	return s.Set(p)
}

// SetTheme changes only the theme channel.
func (s *Store) SetTheme(t Theme) error {
	p := s.Get()
	p.Theme = t
	return s.Set(p)
}

// Reload re-reads the backing file and publishes the result if it differs.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	p, err := readFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	changed := s.prefs != p
	s.prefs = p
	listeners := append([]func(Preferences){}, s.listeners...)
	s.mu.Unlock()
	if changed {
		for _, fn := range listeners {
			fn(p)
		}
	}
	return nil
}

// writeFile replaces path atomically via a temp file in the same directory.
func writeFile(path string, p Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.yaml")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
