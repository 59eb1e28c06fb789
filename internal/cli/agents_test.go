package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/den-cli/den/internal/domain"
	"github.com/den-cli/den/internal/infra/plistcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchctlCommand_NoSubcommand_ShowsHelp(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("", "launchctl")

	require.NoError(t, err)
	for _, sub := range []string{"install", "uninstall", "list", "show", "validate"} {
		assert.Contains(t, stdout, sub)
	}
}

// =============================================================================
// Uninstall
// =============================================================================

func TestUninstallCommand_ByName(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	path := env.addAgent(t, "sync", domain.NewIntervalTask("com.example.den.sync", []string{"x"}, 60))

	// Execute
	stdout, _, err := env.run("", "launchctl", "uninstall", "sync")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "LaunchAgent 'sync' uninstalled successfully")
	assert.Equal(t, []string{path}, env.runner.Unloads)
	assert.Empty(t, env.store.Files)
}

func TestUninstallCommand_Interactive(t *testing.T) {
	env := newTestEnv(t)
	env.addAgent(t, "backup", domain.NewCalendarTask("com.example.den.backup", []string{"x"}, 3, 0))
	env.addAgent(t, "sync", domain.NewIntervalTask("com.example.den.sync", []string{"x"}, 60))

	stdout, _, err := env.run("0\nabc\n2\n", "launchctl", "uninstall")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Available LaunchAgents:\n  1. backup\n  2. sync\n")
	assert.Contains(t, stdout, "Error: Please enter a number between 1 and 2")
	assert.Contains(t, stdout, "Error: Please enter a valid integer")
	assert.Contains(t, stdout, "LaunchAgent 'sync' uninstalled successfully")
	assert.Contains(t, env.store.Files, env.store.Path(testDomain, "backup"))
	assert.NotContains(t, env.store.Files, env.store.Path(testDomain, "sync"))
}

func TestUninstallCommand_NoAgents(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("", "launchctl", "uninstall")

	require.NoError(t, err)
	assert.Equal(t, "No LaunchAgents found for domain 'com.example.den'\n", stdout)
}

func TestUninstallCommand_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("", "launchctl", "uninstall", "nope")

	assert.ErrorIs(t, err, domain.ErrAgentNotFound)
}

func TestUninstallCommand_UnloadFailureKeepsFile(t *testing.T) {
	env := newTestEnv(t)
	path := env.addAgent(t, "sync", domain.NewIntervalTask("com.example.den.sync", []string{"x"}, 60))
	env.runner.UnloadErr = &domain.LifecycleError{Op: "unload", Target: path, ExitCode: 1, Stderr: "Operation not permitted"}

	_, _, err := env.run("", "launchctl", "uninstall", "sync")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operation not permitted")
	assert.Contains(t, env.store.Files, path)
}

// =============================================================================
// List
// =============================================================================

func TestListCommand(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	env.addAgent(t, "backup", domain.NewCalendarTask("com.example.den.backup", []string{"x"}, 3, 30))
	env.addAgent(t, "sync", domain.NewIntervalTask("com.example.den.sync", []string{"x"}, 60))
	env.store.Files[env.store.Path(testDomain, "broken")] = "garbage"
	env.runner.Loaded["com.example.den.sync"] = true

	// Execute
	stdout, _, err := env.run("", "launchctl", "list")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "LaunchAgents for com.example.den:")
	assert.Regexp(t, `backup\s+daily at 03:30\s+not loaded`, stdout)
	assert.Regexp(t, `sync\s+every 60s\s+loaded`, stdout)
	assert.Regexp(t, `broken\s+invalid: plist parse`, stdout)
}

func TestListCommand_NoStatus(t *testing.T) {
	env := newTestEnv(t)
	env.addAgent(t, "sync", domain.NewIntervalTask("com.example.den.sync", []string{"x"}, 60))
	env.runner.LoadedErr = errors.New("must not be called")

	stdout, _, err := env.run("", "launchctl", "list", "--no-status")

	require.NoError(t, err)
	assert.NotContains(t, stdout, "loaded")
	assert.NotContains(t, stdout, "status unknown")
}

func TestListCommand_Empty(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("", "launchctl", "list")

	require.NoError(t, err)
	assert.Equal(t, "No LaunchAgents found for domain 'com.example.den'\n", stdout)
}

// =============================================================================
// Show
// =============================================================================

func TestShowCommand_XML(t *testing.T) {
	env := newTestEnv(t)
	env.addAgent(t, "sync", domain.NewIntervalTask("com.example.den.sync", []string{"x"}, 60))

	stdout, _, err := env.run("", "launchctl", "show", "sync")

	require.NoError(t, err)
	assert.Equal(t, env.store.Files[env.store.Path(testDomain, "sync")], stdout)
}

func TestShowCommand_YAML(t *testing.T) {
	env := newTestEnv(t)
	cfg := domain.NewCalendarTask("com.example.den.backup", []string{"rsync", "-a", "src dir", "dst"}, 3, 5)
	cfg.EnvironmentVariables = map[string]string{"PATH": "/usr/bin"}
	env.addAgent(t, "backup", cfg)

	stdout, _, err := env.run("", "launchctl", "show", "backup", "-o", "yaml")

	require.NoError(t, err)
	assert.Contains(t, stdout, "name: backup\n")
	assert.Regexp(t, `at: ["']?03:05["']?\n`, stdout)
	assert.Contains(t, stdout, "- src dir\n")
	assert.Contains(t, stdout, "PATH: /usr/bin\n")
}

func TestShowCommand_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.store.Files[env.store.Path(testDomain, "broken")] = "garbage"

	_, _, err := env.run("", "launchctl", "show", "nope")
	assert.ErrorIs(t, err, domain.ErrAgentNotFound)

	_, _, err = env.run("", "launchctl", "show", "broken", "--output", "json")
	assert.ErrorContains(t, err, `unknown output format "json"`)

	_, _, err = env.run("", "launchctl", "show", "broken", "--output", "yaml")
	var plistErr *domain.PlistError
	assert.ErrorAs(t, err, &plistErr)

	// The raw definition is still shown as XML.
	stdout, _, err := env.run("", "launchctl", "show", "broken")
	require.NoError(t, err)
	assert.Equal(t, "garbage", stdout)
}

// =============================================================================
// Validate
// =============================================================================

func TestValidateCommand(t *testing.T) {
	env := newTestEnv(t)
	content, err := plistcodec.New().Encode(domain.NewIntervalTask("com.example.den.sync", []string{"x"}, 60))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "com.example.den.sync.plist")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	stdout, stderr, err := env.run("", "launchctl", "validate", path)

	require.NoError(t, err)
	assert.Equal(t, path+": OK (com.example.den.sync, every 60s)\n", stdout)
	assert.Empty(t, stderr)
}

func TestValidateCommand_Warnings(t *testing.T) {
	env := newTestEnv(t)
	content, err := plistcodec.New().Encode(domain.NewIntervalTask("org.other.sync", []string{"x"}, 60))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "org.other.sync.plist")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, stderr, err := env.run("", "launchctl", "validate", path)

	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: label org.other.sync is outside domain com.example.den")
}

func TestValidateCommand_WithoutDomain(t *testing.T) {
	env := newTestEnv(t)
	env.c.AppConfig.Launchctl.Domain = ""
	path := filepath.Join(t.TempDir(), "x.plist")
	require.NoError(t, os.WriteFile(path, []byte("<plist><dict/></plist>"), 0o644))

	_, _, err := env.run("", "launchctl", "validate", path)

	var plistErr *domain.PlistError
	assert.ErrorAs(t, err, &plistErr)
}
