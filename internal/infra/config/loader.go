// Package config provides configuration loading functionality.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/den-cli/den/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from a TOML file.
type Loader struct {
	configDir string // Path to the config directory (e.g., ~/.config/den)
}

// NewLoader creates a new Loader for the default config directory.
func NewLoader() *Loader {
	return &Loader{configDir: domain.DefaultConfigDir()}
}

// NewLoaderWithDir creates a new Loader with a custom config directory.
// This is useful for testing.
func NewLoaderWithDir(configDir string) *Loader {
	return &Loader{configDir: configDir}
}

// Path returns the config file path, or "" when no config directory is known.
func (l *Loader) Path() string {
	if l.configDir == "" {
		return ""
	}
	return domain.ConfigPath(l.configDir)
}

// Load returns the configuration file merged onto the defaults.
// A missing file yields the defaults. A file that cannot be parsed or holds
// invalid values yields a *domain.ConfigError.
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	path := l.Path()
	if path == "" {
		return base, nil
	}

	file, err := loadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}

	merged := mergeConfigs(base, file)
	if err := merged.Validate(); err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}
	return merged, nil
}

// loadFile decodes path strictly; unknown keys are errors.
func loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (*domain.Config, error) {
	var cfg domain.Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, fmt.Errorf("unknown keys: %s", unknownKeys(strictErr))
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		return nil, err
	}
	return &cfg, nil
}

func unknownKeys(err *toml.StrictMissingError) string {
	keys := make([]string, 0, len(err.Errors))
	for i := range err.Errors {
		keys = append(keys, strings.Join(err.Errors[i].Key(), "."))
	}
	return strings.Join(keys, ", ")
}

// mergeConfigs merges override into base. Empty values in override are ignored.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base

	if override.Launchctl.Domain != "" {
		result.Launchctl.Domain = override.Launchctl.Domain
	}
	if override.Launchctl.AgentsDir != "" {
		result.Launchctl.AgentsDir = override.Launchctl.AgentsDir
	}
	if override.Launchctl.Timeout != "" {
		result.Launchctl.Timeout = override.Launchctl.Timeout
	}
	if override.Launchctl.RunAtLoad != nil {
		v := *override.Launchctl.RunAtLoad
		result.Launchctl.RunAtLoad = &v
	}
	if override.Auth.Backend != "" {
		result.Auth.Backend = override.Auth.Backend
	}
	if override.Auth.Service != "" {
		result.Auth.Service = override.Auth.Service
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.File != "" {
		result.Log.File = override.Log.File
	}

	return &result
}
