package storage

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

const fileVersion = "1.0"

// storeFile is the on-disk layout of a Store.
type storeFile struct {
	Version string            `json:"version"`
	Values  map[string]string `json:"values"`
}

// Store is a small string key/value map persisted as JSON. Writes go to a
// temporary file that is renamed over the original, so readers in other
// processes never observe a half-written file.
type Store struct {
	name   string
	path   string
	mu     sync.RWMutex
	values map[string]string
}

// Open creates the parent directory if needed and loads the file at path.
// A missing file yields an empty store.
func Open(name, path string) (*Store, error) {
	s := &Store{
		name:   name,
		path:   path,
		values: make(map[string]string),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create %s store directory: %w", name, err)
	}

	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Name identifies the store in logs and errors.
func (s *Store) Name() string {
	return s.name
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory values with the file contents.
func (s *Store) Load() error {
	values, err := readValues(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Save writes the store to disk atomically.
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(storeFile{Version: fileVersion, Values: s.values}, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal %s store: %w", s.name, err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok
}

// Set stores value under key. Call Save to persist.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
}

// Delete removes key. Call Save to persist.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
}

// Snapshot returns a copy of every key/value pair.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.values)
}

func readValues(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	for k, v := range file.Values {
		values[k] = v
	}
	return values, nil
}
