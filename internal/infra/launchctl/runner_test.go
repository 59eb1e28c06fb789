package launchctl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/den-cli/den/internal/domain"
	"github.com/den-cli/den/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plistPath = "/Users/me/Library/LaunchAgents/com.foo.backup.plist"

func TestRunner_Load_Success(t *testing.T) {
	// Setup
	exec := testutil.NewMockExecutor()
	runner := NewRunner(exec, time.Second)

	// Execute
	err := runner.Load(context.Background(), plistPath)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"launchctl load " + plistPath}, exec.CallKeys())
}

func TestRunner_Unload_Success(t *testing.T) {
	exec := testutil.NewMockExecutor()
	runner := NewRunner(exec, time.Second)

	require.NoError(t, runner.Unload(context.Background(), plistPath))
	assert.Equal(t, []string{"launchctl unload " + plistPath}, exec.CallKeys())
}

func TestRunner_Load_NonZeroExit(t *testing.T) {
	// Setup
	exec := testutil.NewMockExecutor()
	stderr := "Load failed: 5: Input/output error\n"
	exec.Results["launchctl load "+plistPath] = &domain.ExecResult{ExitCode: 5, Stderr: stderr}
	runner := NewRunner(exec, time.Second)

	// Execute
	err := runner.Load(context.Background(), plistPath)

	// Assert
	var lcErr *domain.LifecycleError
	require.True(t, errors.As(err, &lcErr))
	assert.Equal(t, "load", lcErr.Op)
	assert.Equal(t, plistPath, lcErr.Target)
	assert.Equal(t, 5, lcErr.ExitCode)
	assert.Equal(t, stderr, lcErr.Stderr)
	assert.Contains(t, err.Error(), "Input/output error")
	assert.False(t, lcErr.NotLoaded())
}

func TestRunner_Unload_NotLoaded(t *testing.T) {
	exec := testutil.NewMockExecutor()
	exec.Results["launchctl unload "+plistPath] = &domain.ExecResult{
		ExitCode: 113,
		Stderr:   "Unload failed: 113: Could not find specified service\n",
	}
	runner := NewRunner(exec, time.Second)

	err := runner.Unload(context.Background(), plistPath)

	var lcErr *domain.LifecycleError
	require.True(t, errors.As(err, &lcErr))
	assert.Equal(t, "unload", lcErr.Op)
	assert.True(t, lcErr.NotLoaded())
}

func TestRunner_ExecutorError(t *testing.T) {
	exec := testutil.NewMockExecutor()
	cause := errors.New("executable file not found in $PATH")
	exec.Errors["launchctl load "+plistPath] = cause
	runner := NewRunner(exec, time.Second)

	err := runner.Load(context.Background(), plistPath)

	require.ErrorIs(t, err, cause)
	var lcErr *domain.LifecycleError
	require.True(t, errors.As(err, &lcErr))
	assert.Equal(t, -1, lcErr.ExitCode)
	assert.Contains(t, err.Error(), "not found")
}

func TestRunner_CanceledContext(t *testing.T) {
	exec := testutil.NewMockExecutor()
	runner := NewRunner(exec, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Load(ctx, plistPath)

	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_IsLoaded(t *testing.T) {
	exec := testutil.NewMockExecutor()
	exec.Results["launchctl list com.foo.missing"] = &domain.ExecResult{
		ExitCode: 113,
		Stderr:   "Could not find service \"com.foo.missing\" in domain for port\n",
	}
	runner := NewRunner(exec, time.Second)

	loaded, err := runner.IsLoaded(context.Background(), "com.foo.backup")
	require.NoError(t, err)
	assert.True(t, loaded)

	loaded, err = runner.IsLoaded(context.Background(), "com.foo.missing")
	require.NoError(t, err)
	assert.False(t, loaded)
}

func TestRunner_IsLoaded_ExecutorError(t *testing.T) {
	exec := testutil.NewMockExecutor()
	exec.Errors["launchctl list com.foo.backup"] = errors.New("boom")
	runner := NewRunner(exec, time.Second)

	_, err := runner.IsLoaded(context.Background(), "com.foo.backup")
	require.Error(t, err)
}

// deadlineExecutor records whether the context it received had a deadline.
type deadlineExecutor struct {
	hadDeadline bool
}

func (d *deadlineExecutor) Run(ctx context.Context, _ *domain.ExecCommand) (*domain.ExecResult, error) {
	_, d.hadDeadline = ctx.Deadline()
	return &domain.ExecResult{}, nil
}

func TestRunner_Timeout(t *testing.T) {
	t.Run("applies timeout", func(t *testing.T) {
		exec := &deadlineExecutor{}
		require.NoError(t, NewRunner(exec, time.Second).Load(context.Background(), plistPath))
		assert.True(t, exec.hadDeadline)
	})

	t.Run("zero timeout leaves context unbounded", func(t *testing.T) {
		exec := &deadlineExecutor{}
		require.NoError(t, NewRunner(exec, 0).Load(context.Background(), plistPath))
		assert.False(t, exec.hadDeadline)
	})
}
