package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/den-cli/den/internal/domain"
)

// UninstallAgentInput contains the parameters for uninstalling an agent.
type UninstallAgentInput struct {
	Domain   string // Label namespace
	TaskName string // Task name within the domain
}

// UninstallAgentOutput contains the result of uninstalling an agent.
type UninstallAgentOutput struct {
	Path  string // Path of the removed definition
	Label string // Label of the removed agent
}

// UninstallAgent unloads an agent and deletes its definition.
type UninstallAgent struct {
	store  domain.AgentStore
	runner domain.AgentRunner
	logger *slog.Logger
}

// NewUninstallAgent creates a new UninstallAgent use case.
func NewUninstallAgent(store domain.AgentStore, runner domain.AgentRunner, logger *slog.Logger) *UninstallAgent {
	return &UninstallAgent{
		store:  store,
		runner: runner,
		logger: logger,
	}
}

// Execute unloads the agent, then deletes its definition. Only definitions
// found by scanning the domain are eligible. An agent that is already
// unloaded is still deleted.
func (uc *UninstallAgent) Execute(ctx context.Context, in UninstallAgentInput) (*UninstallAgentOutput, error) {
	path, err := findAgent(uc.store, in.Domain, in.TaskName)
	if err != nil {
		return nil, err
	}

	label := domain.Label(in.Domain, in.TaskName)
	logger := uc.logger.With("label", label, "path", path)

	if err := unloadTolerant(ctx, uc.runner, path, logger); err != nil {
		return nil, fmt.Errorf("unload agent: %w", err)
	}

	if err := uc.store.Remove(path); err != nil {
		return nil, fmt.Errorf("remove agent definition: %w", err)
	}

	logger.Info("agent uninstalled")
	return &UninstallAgentOutput{Path: path, Label: label}, nil
}

// findAgent returns the scanned definition path of task in domainName.
// Task names come from scanned filenames, so dotted names are accepted;
// path separators are not.
func findAgent(store domain.AgentStore, domainName, task string) (string, error) {
	if strings.ContainsAny(task, `/\`) || !domain.MatchesDomain(domain.PlistFilename(domainName, task), domainName) {
		return "", fmt.Errorf("%q: %w", task, domain.ErrAgentNotFound)
	}
	paths, err := store.Scan(domainName)
	if err != nil {
		return "", fmt.Errorf("scan agents: %w", err)
	}
	path := store.Path(domainName, task)
	if !slices.Contains(paths, path) {
		return "", fmt.Errorf("%s: %w", domain.Label(domainName, task), domain.ErrAgentNotFound)
	}
	return path, nil
}
