package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/den-cli/den/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Config Command Tests
// =============================================================================

func TestConfigCommand_NoSubcommand_ShowsHelp(t *testing.T) {
	// Setup
	env := newTestEnv(t)

	// Execute
	stdout, _, err := env.run("", "config")

	// Assert - should show help with subcommand list
	require.NoError(t, err)
	assert.Contains(t, stdout, "Available Commands:")
	assert.Contains(t, stdout, "show")
	assert.Contains(t, stdout, "template")
	assert.Contains(t, stdout, "init")
	assert.Contains(t, stdout, "path")
}

func TestConfigShowCommand_Defaults(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("", "config", "show")

	require.NoError(t, err)
	assert.Contains(t, stdout, "[Loaded from]")
	assert.Contains(t, stdout, "config.toml (not found)")
	assert.Contains(t, stdout, "[Effective Config]")
	assert.Contains(t, stdout, "[launchctl]")
	assert.Contains(t, stdout, "run_at_load = true")
	assert.Contains(t, stdout, "backend = 'keychain'")
	assert.Contains(t, stdout, "level = 'info'")
}

func TestConfigShowCommand_FromFile(t *testing.T) {
	env := newTestEnv(t)
	path := domain.ConfigPath(env.c.Config.ConfigDir)
	require.NoError(t, os.WriteFile(path, []byte("[launchctl]\ndomain = \"org.example\"\nrun_at_load = false\n"), 0o600))

	stdout, _, err := env.run("", "config", "show")

	require.NoError(t, err)
	assert.Contains(t, stdout, "- "+path+"\n")
	assert.Contains(t, stdout, "domain = 'org.example'")
	assert.Contains(t, stdout, "run_at_load = false")
}

func TestConfigShowCommand_BrokenFile(t *testing.T) {
	env := newTestEnv(t)
	path := domain.ConfigPath(env.c.Config.ConfigDir)
	require.NoError(t, os.WriteFile(path, []byte("[launchctl]\ndomian = \"typo\"\n"), 0o600))

	_, _, err := env.run("", "config", "show")

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "launchctl.domian")
}

// =============================================================================
// Config Template / Init / Path
// =============================================================================

func TestConfigTemplateCommand_OutputsTemplate(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("", "config", "template")

	require.NoError(t, err)
	assert.Equal(t, domain.RenderConfigTemplate(domain.NewDefaultConfig()), stdout)
}

func TestConfigInitCommand(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	path := filepath.Join(env.c.Config.ConfigDir, domain.ConfigFileName)

	// Execute
	stdout, _, err := env.run("", "config", "init", "--domain", "com.example.den")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Created config file: "+path+"\n", stdout)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "com.example.den")

	// The generated file loads cleanly.
	cfg, err := env.c.ConfigLoader.Load()
	require.NoError(t, err)
	assert.Equal(t, "com.example.den", cfg.Launchctl.Domain)

	// Second run refuses to overwrite.
	_, _, err = env.run("", "config", "init")
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}

func TestConfigInitCommand_InvalidDomain(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("", "config", "init", "--domain", "bad domain")

	assert.ErrorContains(t, err, "invalid --domain")
}

func TestConfigPathCommand(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("", "config", "path")

	require.NoError(t, err)
	assert.Equal(t, domain.ConfigPath(env.c.Config.ConfigDir)+"\n", stdout)
}
