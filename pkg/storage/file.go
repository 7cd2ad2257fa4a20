package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage is a file-backed storage implementation.
// All keys live in a single JSON document that is rewritten atomically
// (temp file + rename) on every mutation, so a crash mid-write never leaves
// a torn file behind. Reads are served from memory.
type FileStorage struct {
	mu     sync.RWMutex
	path   string
	mode   os.FileMode
	values map[string]string
}

// FileStorageOption configures FileStorage behavior.
type FileStorageOption func(*fileStorageConfig)

type fileStorageConfig struct {
	fileMode os.FileMode
}

// WithFileMode sets the permission bits for the storage file.
// Default: 0600 (the file holds a bearer credential).
func WithFileMode(mode os.FileMode) FileStorageOption {
	return func(c *fileStorageConfig) {
		c.fileMode = mode
	}
}

// NewFileStorage opens (or creates) a file-backed storage at path.
// A missing file is treated as empty storage; a file that exists but cannot
// be parsed is an error, so a corrupt session file is surfaced at startup
// rather than silently discarded.
func NewFileStorage(path string, opts ...FileStorageOption) (*FileStorage, error) {
	cfg := &fileStorageConfig{
		fileMode: 0o600,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &FileStorage{
		path:   path,
		mode:   cfg.fileMode,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("storage: parse %s: %w", path, err)
	}
	return s, nil
}

// DefaultPath returns the conventional storage file location for the
// current user, under the OS config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("storage: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "shopkit", "session.json"), nil
}

// Get returns the value stored under key.
func (f *FileStorage) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.values[key]
	return v, ok
}

// Set stores value under key and persists the storage file.
// The in-memory value is updated even when the file write fails, so callers
// observe the new value immediately; only durability is lost.
func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = value
	return f.flushLocked()
}

// Remove deletes key and persists the storage file.
func (f *FileStorage) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.flushLocked()
}

// Path returns the backing file path.
// This is for testing/debugging purposes.
func (f *FileStorage) Path() string {
	return f.path
}

// flushLocked rewrites the storage file. Callers must hold f.mu.
func (f *FileStorage) flushLocked() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("storage: create dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, f.mode); err != nil {
		return fmt.Errorf("storage: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("storage: rename %s: %w", tmp, err)
	}
	return nil
}
