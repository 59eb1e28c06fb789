// Package launchctl registers and deregisters agents with launchd.
package launchctl

import (
	"context"
	"time"

	"github.com/den-cli/den/internal/domain"
)

// Program is the service manager binary.
const Program = "launchctl"

// Runner implements domain.AgentRunner by invoking launchctl.
// Fields are ordered to minimize memory padding.
type Runner struct {
	executor domain.CommandExecutor
	timeout  time.Duration
}

// NewRunner creates a Runner. Each invocation is bounded by timeout;
// zero means no bound beyond the caller's context.
func NewRunner(executor domain.CommandExecutor, timeout time.Duration) *Runner {
	return &Runner{executor: executor, timeout: timeout}
}

// Ensure Runner implements domain.AgentRunner interface.
var _ domain.AgentRunner = (*Runner)(nil)

// Load runs "launchctl load <path>".
func (r *Runner) Load(ctx context.Context, path string) error {
	return r.invoke(ctx, "load", path)
}

// Unload runs "launchctl unload <path>".
func (r *Runner) Unload(ctx context.Context, path string) error {
	return r.invoke(ctx, "unload", path)
}

// IsLoaded runs "launchctl list <label>", which exits 0 only for
// registered labels.
func (r *Runner) IsLoaded(ctx context.Context, label string) (bool, error) {
	res, err := r.run(ctx, "list", label)
	if err != nil {
		return false, &domain.LifecycleError{Op: "list", Target: label, ExitCode: -1, Err: err}
	}
	return res.Success(), nil
}

func (r *Runner) invoke(ctx context.Context, op, path string) error {
	res, err := r.run(ctx, op, path)
	if err != nil {
		return &domain.LifecycleError{Op: op, Target: path, ExitCode: -1, Err: err}
	}
	if !res.Success() {
		return &domain.LifecycleError{
			Op:       op,
			Target:   path,
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, args ...string) (*domain.ExecResult, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.executor.Run(ctx, domain.NewCommand(Program, args...))
}
