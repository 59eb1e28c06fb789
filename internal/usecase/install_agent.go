// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/den-cli/den/internal/domain"
)

// InstallAgentInput contains the parameters for installing an agent.
// Fields are ordered to minimize memory padding.
type InstallAgentInput struct {
	Env        map[string]string // Literal environment variables
	EnvSecrets map[string]string // Environment variable -> credential key
	Interval   *int              // StartInterval in seconds
	Hour       *int              // StartCalendarInterval hour
	Minute     *int              // StartCalendarInterval minute
	Domain     string            // Label namespace
	TaskName   string            // Task name within the domain
	Args       []string          // Program arguments
	RunAtLoad  bool              // Start the agent when it is loaded
	Force      bool              // Replace an existing definition
}

// InstallAgentOutput contains the result of installing an agent.
type InstallAgentOutput struct {
	Config   *domain.TaskConfig // The installed configuration
	Path     string             // Path of the written definition
	Replaced bool               // An existing definition was replaced
}

// InstallAgent writes an agent definition and loads it.
// Fields are ordered to minimize memory padding.
type InstallAgent struct {
	store  domain.AgentStore
	codec  domain.PlistCodec
	runner domain.AgentRunner
	creds  domain.CredentialStore
	logger *slog.Logger
}

// NewInstallAgent creates a new InstallAgent use case.
// creds may be nil when no EnvSecrets are used.
func NewInstallAgent(
	store domain.AgentStore,
	codec domain.PlistCodec,
	runner domain.AgentRunner,
	creds domain.CredentialStore,
	logger *slog.Logger,
) *InstallAgent {
	return &InstallAgent{
		store:  store,
		codec:  codec,
		runner: runner,
		creds:  creds,
		logger: logger,
	}
}

// Execute installs the agent. The definition is written before it is loaded;
// if loading fails the written file is removed (or the replaced definition
// restored) so no unloaded definition is left behind.
func (uc *InstallAgent) Execute(ctx context.Context, in InstallAgentInput) (*InstallAgentOutput, error) {
	if ok, msg := domain.ValidateDomain(in.Domain); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTaskConfig, msg)
	}
	if ok, msg := domain.ValidateTaskName(in.TaskName); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTaskConfig, msg)
	}

	env, err := uc.environment(in)
	if err != nil {
		return nil, err
	}

	cfg := &domain.TaskConfig{
		Label:                domain.Label(in.Domain, in.TaskName),
		ProgramArguments:     append([]string(nil), in.Args...),
		EnvironmentVariables: env,
		StartInterval:        in.Interval,
		StartCalendarHour:    in.Hour,
		StartCalendarMinute:  in.Minute,
		RunAtLoad:            in.RunAtLoad,
	}
	content, err := uc.codec.Encode(cfg)
	if err != nil {
		return nil, err
	}

	path := uc.store.Path(in.Domain, in.TaskName)
	logger := uc.logger.With("label", cfg.Label, "path", path)

	exists, err := uc.store.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("check agent definition: %w", err)
	}

	var previous string
	if exists {
		if !in.Force {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrAgentExists)
		}
		previous, err = uc.store.Read(path)
		if err != nil {
			return nil, fmt.Errorf("read existing agent definition: %w", err)
		}
		if err := unloadTolerant(ctx, uc.runner, path, logger); err != nil {
			return nil, fmt.Errorf("unload existing agent: %w", err)
		}
	}

	if err := uc.store.Write(path, content); err != nil {
		// A failed write may leave a truncated file behind.
		uc.rollback(ctx, path, previous, logger)
		return nil, fmt.Errorf("write agent definition: %w", err)
	}
	logger.Debug("agent definition written")

	if err := uc.runner.Load(ctx, path); err != nil {
		uc.rollback(ctx, path, previous, logger)
		return nil, fmt.Errorf("load agent: %w", err)
	}

	logger.Info("agent installed", "schedule", cfg.ScheduleString(), "replaced", exists)
	return &InstallAgentOutput{
		Config:   cfg,
		Path:     path,
		Replaced: exists,
	}, nil
}

// environment merges literal variables with resolved credentials.
func (uc *InstallAgent) environment(in InstallAgentInput) (map[string]string, error) {
	if len(in.Env) == 0 && len(in.EnvSecrets) == 0 {
		return nil, nil
	}
	env := maps.Clone(in.Env)
	if env == nil {
		env = make(map[string]string, len(in.EnvSecrets))
	}
	if len(in.EnvSecrets) > 0 && uc.creds == nil {
		return nil, errors.New("credential store not available")
	}
	for name, key := range in.EnvSecrets {
		if _, dup := env[name]; dup {
			return nil, fmt.Errorf("%w: environment variable %s set twice", domain.ErrInvalidTaskConfig, name)
		}
		value, err := uc.creds.Get(key)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", name, err)
		}
		env[name] = value
	}
	return env, nil
}

// rollback removes a definition that failed to write or load, or restores the one it replaced.
func (uc *InstallAgent) rollback(ctx context.Context, path, previous string, logger *slog.Logger) {
	if previous == "" {
		if err := uc.store.Remove(path); err != nil {
			logger.Error("failed to remove unloadable agent definition", "error", err)
		}
		return
	}
	if err := uc.store.Write(path, previous); err != nil {
		logger.Error("failed to restore replaced agent definition", "error", err)
		return
	}
	if err := uc.runner.Load(ctx, path); err != nil {
		logger.Warn("restored agent definition could not be loaded", "error", err)
	}
}

// unloadTolerant unloads path, treating "not loaded" replies as success.
func unloadTolerant(ctx context.Context, runner domain.AgentRunner, path string, logger *slog.Logger) error {
	err := runner.Unload(ctx, path)
	if err == nil {
		return nil
	}
	var lcErr *domain.LifecycleError
	if errors.As(err, &lcErr) && lcErr.NotLoaded() {
		logger.Warn("agent was not loaded", "stderr", lcErr.Stderr)
		return nil
	}
	return err
}
