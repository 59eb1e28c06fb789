// Package agentdir scans and manages agent definition files in the
// LaunchAgents directory, scoped by domain.
package agentdir

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/den-cli/den/internal/domain"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Permissions for created directories and definition files.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store implements domain.AgentStore on a billy filesystem.
type Store struct {
	fs  billy.Filesystem
	dir string
}

// New creates a Store for dir on the OS filesystem.
func New(dir string) *Store {
	return NewWithFS(osfs.New("/"), dir)
}

// NewWithFS creates a Store backed by fsys.
// This is useful for testing with an in-memory filesystem.
func NewWithFS(fsys billy.Filesystem, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

// Ensure Store implements domain.AgentStore interface.
var _ domain.AgentStore = (*Store)(nil)

// Dir returns the agents directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the definition path of task in domain.
func (s *Store) Path(domainName, task string) string {
	return domain.PlistPath(s.dir, domainName, task)
}

// Scan returns the definitions owned by domainName in the agents directory.
func (s *Store) Scan(domainName string) ([]string, error) {
	return s.ScanDir(domainName, s.dir)
}

// ScanDir returns the sorted paths of files in dir named "<domain>.*.plist".
// A missing directory has no agents.
func (s *Store) ScanDir(domainName, dir string) ([]string, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, &domain.FilesystemError{Op: "read directory", Path: dir, Err: err}
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !domain.MatchesDomain(entry.Name(), domainName) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) (bool, error) {
	_, err := s.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &domain.FilesystemError{Op: "stat", Path: path, Err: err}
}

// Read returns the content of the definition at path.
func (s *Store) Read(path string) (string, error) {
	data, err := util.ReadFile(s.fs, path)
	if err != nil {
		return "", &domain.FilesystemError{Op: "read", Path: path, Err: err}
	}
	return string(data), nil
}

// Write creates the parent directory if needed and writes content to path.
func (s *Store) Write(path, content string) error {
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return &domain.FilesystemError{Op: "create directory", Path: dir, Err: err}
	}
	if err := util.WriteFile(s.fs, path, []byte(content), filePerm); err != nil {
		return &domain.FilesystemError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Remove deletes the definition at path.
func (s *Store) Remove(path string) error {
	if err := s.fs.Remove(path); err != nil {
		return &domain.FilesystemError{Op: "remove", Path: path, Err: err}
	}
	return nil
}
