package config

import (
	"errors"
	"os"

	"github.com/den-cli/den/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages the config file.
type Manager struct {
	configDir string // Path to the config directory (e.g., ~/.config/den)
}

// NewManager creates a new Manager for the default config directory.
func NewManager() *Manager {
	return &Manager{configDir: domain.DefaultConfigDir()}
}

// NewManagerWithDir creates a new Manager with a custom config directory.
// This is useful for testing.
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{configDir: configDir}
}

// GetConfigInfo returns information about the config file.
func (m *Manager) GetConfigInfo() domain.ConfigInfo {
	if m.configDir == "" {
		return domain.ConfigInfo{
			Path:   "",
			Exists: false,
		}
	}
	path := domain.ConfigPath(m.configDir)
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitConfig creates the config file from the commented template.
func (m *Manager) InitConfig(cfg *domain.Config) error {
	if m.configDir == "" {
		return errors.New("config directory not available")
	}
	path := domain.ConfigPath(m.configDir)

	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return err
	}

	content := domain.RenderConfigTemplate(cfg)
	return os.WriteFile(path, []byte(content), 0600)
}
