// Package storage provides a file-backed JSON key/value store for
// process-wide persisted state such as the pinned-schema mapping.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound reports a missing key.
var ErrNotFound = errors.New("not found")

// Store persists JSON documents under a base directory, one file per key.
type Store struct {
	basePath string
	mu       sync.Mutex
	locks    map[string]*FileLock
}

// New creates a Store rooted at basePath.
func New(basePath string) *Store {
	return &Store{
		basePath: basePath,
		locks:    make(map[string]*FileLock),
	}
}

func (s *Store) keyToFile(key string) string {
	return filepath.Join(s.basePath, key+".json")
}

// Get reads the value stored under key into v.
func (s *Store) Get(ctx context.Context, key string, v any) error {
	data, err := os.ReadFile(s.keyToFile(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// Put stores v under key. The write goes to a temp file first and is
// renamed into place, so readers never observe a partial value.
func (s *Store) Put(ctx context.Context, key string, v any) error {
	path := s.keyToFile(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	lock := s.getLock(path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Delete removes the value under key. Deleting a missing key is not an
// error.
func (s *Store) Delete(ctx context.Context, key string) error {
	path := s.keyToFile(key)

	lock := s.getLock(path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer lock.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Exists reports whether a value is stored under key.
func (s *Store) Exists(ctx context.Context, key string) bool {
	_, err := os.Stat(s.keyToFile(key))
	return err == nil
}

func (s *Store) getLock(path string) *FileLock {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[path]
	if !ok {
		lock = NewFileLock(path)
		s.locks[path] = lock
	}
	return lock
}
