// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/den-cli/den/internal/domain"
)

// NewDiscardLogger returns a logger that drops every record.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockExecutor is a test double for domain.CommandExecutor.
// Results are keyed by "program arg1 arg2 ...". Unknown commands succeed
// with empty output.
// Fields are ordered to minimize memory padding.
type MockExecutor struct {
	Results map[string]*domain.ExecResult
	Errors  map[string]error
	Calls   []*domain.ExecCommand
}

// NewMockExecutor creates a new MockExecutor with initialized maps.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Results: make(map[string]*domain.ExecResult),
		Errors:  make(map[string]error),
	}
}

// Ensure MockExecutor implements domain.CommandExecutor interface.
var _ domain.CommandExecutor = (*MockExecutor)(nil)

// CommandKey returns the key used to look up results for cmd.
func CommandKey(cmd *domain.ExecCommand) string {
	return strings.Join(append([]string{cmd.Program}, cmd.Args...), " ")
}

// Run records the call and returns the configured result or error.
func (m *MockExecutor) Run(ctx context.Context, cmd *domain.ExecCommand) (*domain.ExecResult, error) {
	m.Calls = append(m.Calls, cmd)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := CommandKey(cmd)
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if res, ok := m.Results[key]; ok {
		return res, nil
	}
	return &domain.ExecResult{}, nil
}

// CallKeys returns the keys of all recorded calls in order.
func (m *MockExecutor) CallKeys() []string {
	keys := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		keys = append(keys, CommandKey(c))
	}
	return keys
}

// MockAgentStore is a test double for domain.AgentStore backed by a map.
// Fields are ordered to minimize memory padding.
type MockAgentStore struct {
	Files     map[string]string
	ScanErr   error
	ReadErr   error
	WriteErr  error
	RemoveErr error
	ExistsErr error
	AgentsDir string
	Removed   []string
	WriteErrs []error
}

// NewMockAgentStore creates a new MockAgentStore rooted at dir.
func NewMockAgentStore(dir string) *MockAgentStore {
	return &MockAgentStore{
		Files:     make(map[string]string),
		AgentsDir: dir,
	}
}

// Ensure MockAgentStore implements domain.AgentStore interface.
var _ domain.AgentStore = (*MockAgentStore)(nil)

// Dir returns the configured directory.
func (m *MockAgentStore) Dir() string {
	return m.AgentsDir
}

// Path returns the definition path of task in domain.
func (m *MockAgentStore) Path(domainName, task string) string {
	return domain.PlistPath(m.AgentsDir, domainName, task)
}

// Scan returns the sorted stored paths owned by domainName.
func (m *MockAgentStore) Scan(domainName string) ([]string, error) {
	if m.ScanErr != nil {
		return nil, m.ScanErr
	}
	paths := []string{}
	for p := range m.Files {
		if filepath.Dir(p) == m.AgentsDir && domain.MatchesDomain(filepath.Base(p), domainName) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Exists reports whether path is stored.
func (m *MockAgentStore) Exists(path string) (bool, error) {
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	_, ok := m.Files[path]
	return ok, nil
}

// Read returns the stored content.
func (m *MockAgentStore) Read(path string) (string, error) {
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	content, ok := m.Files[path]
	if !ok {
		return "", &domain.FilesystemError{Op: "read", Path: path, Err: fmt.Errorf("file does not exist")}
	}
	return content, nil
}

// Write stores content. Errors queued in WriteErrs are returned first, one per call.
func (m *MockAgentStore) Write(path, content string) error {
	if len(m.WriteErrs) > 0 {
		err := m.WriteErrs[0]
		m.WriteErrs = m.WriteErrs[1:]
		return err
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Files[path] = content
	return nil
}

// Remove deletes the stored content and records the call.
func (m *MockAgentStore) Remove(path string) error {
	m.Removed = append(m.Removed, path)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	if _, ok := m.Files[path]; !ok {
		return &domain.FilesystemError{Op: "remove", Path: path, Err: fmt.Errorf("file does not exist")}
	}
	delete(m.Files, path)
	return nil
}

// MockAgentRunner is a test double for domain.AgentRunner.
// Fields are ordered to minimize memory padding.
type MockAgentRunner struct {
	LoadErr   error
	UnloadErr error
	LoadedErr error
	Loaded    map[string]bool
	LoadCalls []string
	Unloads   []string
}

// NewMockAgentRunner creates a new MockAgentRunner.
func NewMockAgentRunner() *MockAgentRunner {
	return &MockAgentRunner{Loaded: make(map[string]bool)}
}

// Ensure MockAgentRunner implements domain.AgentRunner interface.
var _ domain.AgentRunner = (*MockAgentRunner)(nil)

// Load records the call and returns the configured error.
func (m *MockAgentRunner) Load(_ context.Context, path string) error {
	m.LoadCalls = append(m.LoadCalls, path)
	return m.LoadErr
}

// Unload records the call and returns the configured error.
func (m *MockAgentRunner) Unload(_ context.Context, path string) error {
	m.Unloads = append(m.Unloads, path)
	return m.UnloadErr
}

// IsLoaded returns whether label is in Loaded.
func (m *MockAgentRunner) IsLoaded(_ context.Context, label string) (bool, error) {
	if m.LoadedErr != nil {
		return false, m.LoadedErr
	}
	return m.Loaded[label], nil
}

// MockCredentialStore is a test double for domain.CredentialStore.
// Fields are ordered to minimize memory padding.
type MockCredentialStore struct {
	Secrets map[string]string
	GetErr  error
	SetErr  error
	DelErr  error
	ListErr error
}

// NewMockCredentialStore creates a new MockCredentialStore.
func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{Secrets: make(map[string]string)}
}

// Ensure MockCredentialStore implements domain.CredentialStore interface.
var _ domain.CredentialStore = (*MockCredentialStore)(nil)

// Get returns the stored secret.
func (m *MockCredentialStore) Get(key string) (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	v, ok := m.Secrets[key]
	if !ok {
		return "", domain.ErrCredentialNotFound
	}
	return v, nil
}

// Set stores a secret.
func (m *MockCredentialStore) Set(key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Secrets[key] = value
	return nil
}

// Delete removes a secret.
func (m *MockCredentialStore) Delete(key string) error {
	if m.DelErr != nil {
		return m.DelErr
	}
	delete(m.Secrets, key)
	return nil
}

// List returns the sorted keys.
func (m *MockCredentialStore) List() ([]string, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	keys := make([]string, 0, len(m.Secrets))
	for k := range m.Secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// MockPrompter is a test double for domain.Prompter.
// Answers are consumed in order; running out returns an error.
type MockPrompter struct {
	Answers []string
	Labels  []string
}

// NewMockPrompter creates a MockPrompter that replies with answers.
func NewMockPrompter(answers ...string) *MockPrompter {
	return &MockPrompter{Answers: answers}
}

// Ensure MockPrompter implements domain.Prompter interface.
var _ domain.Prompter = (*MockPrompter)(nil)

// Ask returns the next answer.
func (m *MockPrompter) Ask(label string) (string, error) {
	m.Labels = append(m.Labels, label)
	if len(m.Answers) == 0 {
		return "", fmt.Errorf("no answer for prompt %q", label)
	}
	answer := m.Answers[0]
	m.Answers = m.Answers[1:]
	return answer, nil
}

// AskSecret returns the next answer.
func (m *MockPrompter) AskSecret(label string) (string, error) {
	return m.Ask(label)
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitErr    error
	InitArg    *domain.Config
	Info       domain.ConfigInfo
	InitCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		Info: domain.ConfigInfo{
			Path:   "/home/test/.config/den/config.toml",
			Exists: false,
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetConfigInfo returns the configured config info.
func (m *MockConfigManager) GetConfigInfo() domain.ConfigInfo {
	return m.Info
}

// InitConfig records the call and returns configured error.
func (m *MockConfigManager) InitConfig(cfg *domain.Config) error {
	m.InitCalled = true
	m.InitArg = cfg
	return m.InitErr
}
