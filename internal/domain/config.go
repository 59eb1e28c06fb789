package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Launchctl LaunchctlConfig `toml:"launchctl"`
	Auth      AuthConfig      `toml:"auth"`
	Log       LogConfig       `toml:"log"`
}

// LaunchctlConfig holds the [launchctl] section.
type LaunchctlConfig struct {
	Domain    string `toml:"domain"`      // Namespace prefixing every managed label
	AgentsDir string `toml:"agents_dir"`  // Empty means ~/Library/LaunchAgents
	Timeout   string `toml:"timeout"`     // Per-invocation launchctl timeout, e.g. "30s"
	RunAtLoad *bool  `toml:"run_at_load"` // Default RunAtLoad for new agents
}

// AuthConfig holds the [auth] section.
type AuthConfig struct {
	Backend string `toml:"backend"` // "keychain" or "file"
	Service string `toml:"service"` // Keychain service name
}

// LogConfig holds the [log] section.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	File  string `toml:"file"`  // Empty means <config dir>/logs/den.log
}

// Directory and file names for den.
const (
	ConfigFileName = "config.toml"
)

// Credential store backends.
const (
	AuthBackendKeychain = "keychain"
	AuthBackendFile     = "file"
)

// Default configuration values.
const (
	DefaultLogLevel         = "info"
	DefaultAuthBackend      = AuthBackendKeychain
	DefaultKeychainService  = "den-cli"
	DefaultLaunchctlTimeout = 30 * time.Second
)

// ConfigPath returns the config file path inside configDir.
func ConfigPath(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Launchctl: LaunchctlConfig{
			Timeout: DefaultLaunchctlTimeout.String(),
		},
		Auth: AuthConfig{
			Backend: DefaultAuthBackend,
			Service: DefaultKeychainService,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// LaunchctlTimeout returns the parsed timeout, falling back to the default.
func (c *Config) LaunchctlTimeout() time.Duration {
	d, err := time.ParseDuration(c.Launchctl.Timeout)
	if err != nil || d <= 0 {
		return DefaultLaunchctlTimeout
	}
	return d
}

// DefaultRunAtLoad returns the RunAtLoad value for new agents.
func (c *Config) DefaultRunAtLoad() bool {
	if c.Launchctl.RunAtLoad == nil {
		return true
	}
	return *c.Launchctl.RunAtLoad
}

// Validate checks value-level constraints the TOML decoder cannot express.
func (c *Config) Validate() error {
	if c.Launchctl.Domain != "" {
		if ok, msg := ValidateDomain(c.Launchctl.Domain); !ok {
			return fmt.Errorf("[launchctl].domain: %s", msg)
		}
	}
	if c.Launchctl.Timeout != "" {
		d, err := time.ParseDuration(c.Launchctl.Timeout)
		if err != nil {
			return fmt.Errorf("[launchctl].timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("[launchctl].timeout: must be positive, got %s", d)
		}
	}
	switch c.Auth.Backend {
	case AuthBackendKeychain, AuthBackendFile:
	default:
		return fmt.Errorf("[auth].backend: unknown backend %q (want %q or %q)", c.Auth.Backend, AuthBackendKeychain, AuthBackendFile)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("[log].level: unknown level %q", c.Log.Level)
	}
	return nil
}

// ConfigInfo contains information about a config file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// templateData holds all data for rendering the config template.
type templateData struct {
	Domain      string
	Timeout     string
	AuthBackend string
	AuthService string
	LogLevel    string
}

// RenderConfigTemplate renders a commented config file from cfg.
func RenderConfigTemplate(cfg *Config) string {
	data := templateData{
		Domain:      cfg.Launchctl.Domain,
		Timeout:     cfg.Launchctl.Timeout,
		AuthBackend: cfg.Auth.Backend,
		AuthService: cfg.Auth.Service,
		LogLevel:    cfg.Log.Level,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}
