package domain

import (
	"context"
)

// CommandExecutor runs external processes.
type CommandExecutor interface {
	// Run executes the command and captures stdout, stderr and exit code.
	// A non-zero exit is reported in the result, not as an error;
	// the error is reserved for commands that could not run at all.
	Run(ctx context.Context, cmd *ExecCommand) (*ExecResult, error)
}

// PlistCodec converts TaskConfig to and from property-list text.
type PlistCodec interface {
	// Encode renders cfg as an XML property list.
	Encode(cfg *TaskConfig) (string, error)

	// Decode parses a property list into a TaskConfig.
	Decode(content string) (*TaskConfig, error)
}

// AgentStore manages agent definition files in the agents directory.
type AgentStore interface {
	// Dir returns the agents directory.
	Dir() string

	// Path returns the definition path for a task of domain.
	Path(domain, task string) string

	// Scan returns the sorted definition paths owned by domain.
	Scan(domain string) ([]string, error)

	// Exists reports whether a definition file exists.
	Exists(path string) (bool, error)

	// Read returns the content of a definition file.
	Read(path string) (string, error)

	// Write creates the agents directory if needed and writes a definition file.
	Write(path, content string) error

	// Remove deletes a definition file.
	Remove(path string) error
}

// AgentRunner registers agents with the OS service manager.
type AgentRunner interface {
	// Load registers the agent defined at path.
	Load(ctx context.Context, path string) error

	// Unload deregisters the agent defined at path.
	Unload(ctx context.Context, path string) error

	// IsLoaded reports whether an agent with label is registered.
	IsLoaded(ctx context.Context, label string) (bool, error)
}

// CredentialStore stores string secrets by key.
type CredentialStore interface {
	// Get returns the secret for key, or ErrCredentialNotFound.
	Get(key string) (string, error)

	// Set stores a secret.
	Set(key, value string) error

	// Delete removes a secret. Deleting a missing key is not an error.
	Delete(key string) error

	// List returns the stored keys, sorted.
	List() ([]string, error)
}

// Prompter asks the user for a line of input.
type Prompter interface {
	// Ask shows label and returns the entered line.
	Ask(label string) (string, error)

	// AskSecret is Ask without echoing the input.
	AskSecret(label string) (string, error)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the effective configuration.
	Load() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetConfigInfo returns information about the config file.
	GetConfigInfo() ConfigInfo

	// InitConfig creates the config file from cfg.
	InitConfig(cfg *Config) error
}
