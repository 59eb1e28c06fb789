package cli

import (
	"errors"
	"testing"

	"github.com/den-cli/den/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Version(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("", "--version")

	require.NoError(t, err)
	assert.Equal(t, "den version 1.2.3\n", stdout)
}

func TestRootCommand_Groups(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("", "--help")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Agent Commands:")
	assert.Contains(t, stdout, "Setup Commands:")
	assert.Contains(t, stdout, "launchctl")
	assert.Contains(t, stdout, "auth")
	assert.Contains(t, stdout, "--debug")
}

func TestRootCommand_ConfigErrorBlocksAgentCommands(t *testing.T) {
	env := newTestEnv(t)
	env.c.ConfigErr = &domain.ConfigError{Path: "/x/config.toml", Err: errors.New("line 1, column 1: bad")}

	_, _, err := env.run("", "launchctl", "list")
	var cfgErr *domain.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, _, err = env.run("", "auth", "list")
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRootCommand_ConfigErrorAllowsConfigRepair(t *testing.T) {
	env := newTestEnv(t)
	env.c.ConfigErr = &domain.ConfigError{Path: "/x/config.toml", Err: errors.New("bad")}

	for _, args := range [][]string{
		{"config", "path"},
		{"config", "template"},
		{"config", "init"},
		{"--version"},
	} {
		_, _, err := env.run("", args...)
		assert.NoError(t, err, "%v", args)
	}
}

func TestRootCommand_NilContainer(t *testing.T) {
	cmd := NewRootCommand(nil, "dev")
	cmd.SetArgs([]string{"--help"})

	assert.NoError(t, cmd.Execute())
}
