// Package jsonstore provides a JSON file-based implementation of CredentialStore.
// The file is a flat object of key to secret, readable only by its owner.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/den-cli/den/internal/domain"
)

// storeData represents the JSON file structure.
type storeData map[string]string

// Store implements domain.CredentialStore using a JSON file.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Ensure Store implements domain.CredentialStore.
var _ domain.CredentialStore = (*Store)(nil)

// Path returns the credential file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the secret stored under key.
func (s *Store) Get(key string) (string, error) {
	if key == "" {
		return "", domain.ErrEmptyCredentialKey
	}
	var value string
	err := s.withLock(func(data storeData) error {
		v, ok := data[key]
		if !ok {
			return domain.ErrCredentialNotFound
		}
		value = v
		return nil
	})
	if err != nil {
		return "", s.wrap("get", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	if key == "" {
		return domain.ErrEmptyCredentialKey
	}
	err := s.withLockWrite(func(data storeData) error {
		data[key] = value
		return nil
	})
	return s.wrap("set", key, err)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if key == "" {
		return domain.ErrEmptyCredentialKey
	}
	err := s.withLockWrite(func(data storeData) error {
		delete(data, key)
		return nil
	})
	return s.wrap("delete", key, err)
}

// List returns the stored keys, sorted.
func (s *Store) List() ([]string, error) {
	keys := []string{}
	err := s.withLock(func(data storeData) error {
		for k := range data {
			keys = append(keys, k)
		}
		return nil
	})
	if err != nil {
		return nil, s.wrap("list", "", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.CredentialError{Op: op, Key: key, Err: err}
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// read returns the stored credentials. A missing file is an empty store.
func (s *Store) read() (storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return storeData{}, nil
		}
		return nil, fmt.Errorf("read credential file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse credential file %s: %w", s.path, err)
	}
	if data == nil {
		data = storeData{}
	}

	return data, nil
}

func (s *Store) write(data storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
