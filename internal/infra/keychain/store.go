// Package keychain stores credentials in the macOS login keychain
// through the security(1) command.
package keychain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/den-cli/den/internal/domain"
)

const (
	// Program is the keychain command line tool.
	Program = "security"

	// RegistryKey holds a JSON array of stored keys, since the keychain
	// cannot enumerate accounts of a service.
	RegistryKey = "_credential_registry"

	// exitItemNotFound is returned by security(1) for a missing item.
	exitItemNotFound = 44

	defaultTimeout = 10 * time.Second
)

// Store implements domain.CredentialStore on the login keychain.
// Fields are ordered to minimize memory padding.
type Store struct {
	executor domain.CommandExecutor
	service  string
	timeout  time.Duration
}

// New creates a Store for the keychain service name.
func New(executor domain.CommandExecutor, service string) *Store {
	return &Store{
		executor: executor,
		service:  service,
		timeout:  defaultTimeout,
	}
}

// Ensure Store implements domain.CredentialStore.
var _ domain.CredentialStore = (*Store)(nil)

// Get returns the secret stored under key.
func (s *Store) Get(key string) (string, error) {
	if key == "" {
		return "", domain.ErrEmptyCredentialKey
	}
	value, err := s.find(key)
	if err != nil {
		return "", &domain.CredentialError{Op: "get", Key: key, Err: err}
	}
	return value, nil
}

// Set stores value under key and records key in the registry.
func (s *Store) Set(key, value string) error {
	if key == "" {
		return domain.ErrEmptyCredentialKey
	}
	if key == RegistryKey {
		return &domain.CredentialError{Op: "set", Key: key, Err: errors.New("reserved key")}
	}
	if err := s.add(key, value); err != nil {
		return &domain.CredentialError{Op: "set", Key: key, Err: err}
	}
	if err := s.updateRegistry(key, true); err != nil {
		return &domain.CredentialError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if key == "" {
		return domain.ErrEmptyCredentialKey
	}
	res, err := s.run("delete-generic-password", "-a", key, "-s", s.service)
	if err != nil {
		return &domain.CredentialError{Op: "delete", Key: key, Err: err}
	}
	if !res.Success() && res.ExitCode != exitItemNotFound {
		return &domain.CredentialError{Op: "delete", Key: key, Err: commandError(res)}
	}
	if err := s.updateRegistry(key, false); err != nil {
		return &domain.CredentialError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// List returns the registered keys, sorted.
func (s *Store) List() ([]string, error) {
	keys, err := s.registry()
	if err != nil {
		return nil, &domain.CredentialError{Op: "list", Err: err}
	}
	return keys, nil
}

func (s *Store) find(key string) (string, error) {
	res, err := s.run("find-generic-password", "-a", key, "-s", s.service, "-w")
	if err != nil {
		return "", err
	}
	if res.ExitCode == exitItemNotFound {
		return "", domain.ErrCredentialNotFound
	}
	if !res.Success() {
		return "", commandError(res)
	}
	return strings.TrimSuffix(res.Stdout, "\n"), nil
}

func (s *Store) add(key, value string) error {
	// -U updates an existing item in place.
	res, err := s.run("add-generic-password", "-U", "-a", key, "-s", s.service, "-w", value)
	if err != nil {
		return err
	}
	if !res.Success() {
		return commandError(res)
	}
	return nil
}

func (s *Store) registry() ([]string, error) {
	raw, err := s.find(RegistryKey)
	if errors.Is(err, domain.ErrCredentialNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("parse credential registry: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) updateRegistry(key string, add bool) error {
	keys, err := s.registry()
	if err != nil {
		return err
	}

	set := make(map[string]struct{}, len(keys)+1)
	for _, k := range keys {
		set[k] = struct{}{}
	}
	if _, ok := set[key]; ok == add {
		return nil
	}
	if add {
		set[key] = struct{}{}
	} else {
		delete(set, key)
	}

	updated := make([]string, 0, len(set))
	for k := range set {
		updated = append(updated, k)
	}
	sort.Strings(updated)

	data, err := json.Marshal(updated)
	if err != nil {
		return err
	}
	if err := s.add(RegistryKey, string(data)); err != nil {
		return fmt.Errorf("update credential registry: %w", err)
	}
	return nil
}

func (s *Store) run(args ...string) (*domain.ExecResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.executor.Run(ctx, domain.NewCommand(Program, args...))
}

func commandError(res *domain.ExecResult) error {
	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = "no output"
	}
	return fmt.Errorf("security exited with status %d: %s", res.ExitCode, msg)
}
