package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/den-cli/den/internal/app"
	"github.com/den-cli/den/internal/domain"
	"github.com/den-cli/den/internal/infra/plistcodec"
	"github.com/den-cli/den/internal/testutil"
	"github.com/stretchr/testify/require"
)

const (
	testAgentsDir = "/Users/me/Library/LaunchAgents"
	testDomain    = "com.example.den"
)

// testEnv bundles a container with the doubles behind it.
type testEnv struct {
	c      *app.Container
	store  *testutil.MockAgentStore
	runner *testutil.MockAgentRunner
	creds  *testutil.MockCredentialStore
}

// newTestEnv creates a container with in-memory agents and credentials
// and a real config directory under t.TempDir().
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	appConfig := domain.NewDefaultConfig()
	appConfig.Launchctl.Domain = testDomain

	env := &testEnv{
		store:  testutil.NewMockAgentStore(testAgentsDir),
		runner: testutil.NewMockAgentRunner(),
		creds:  testutil.NewMockCredentialStore(),
	}
	env.c = app.NewWithDeps(
		app.Config{ConfigDir: t.TempDir(), AgentsDir: testAgentsDir},
		appConfig,
		env.store,
		env.runner,
		env.creds,
		testutil.NewDiscardLogger(),
	)
	return env
}

// run executes the root command with args and stdin, returning stdout and stderr.
func (e *testEnv) run(stdin string, args ...string) (string, string, error) {
	cmd := NewRootCommand(e.c, "1.2.3")
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// addAgent stores an encoded definition for task.
func (e *testEnv) addAgent(t *testing.T, task string, cfg *domain.TaskConfig) string {
	t.Helper()
	content, err := plistcodec.New().Encode(cfg)
	require.NoError(t, err)
	path := e.store.Path(testDomain, task)
	e.store.Files[path] = content
	return path
}
