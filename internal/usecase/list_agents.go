package usecase

import (
	"context"
	"fmt"

	"github.com/den-cli/den/internal/domain"
)

// ListAgentsInput contains the parameters for listing agents.
type ListAgentsInput struct {
	Domain      string // Label namespace
	CheckLoaded bool   // Query launchd for each agent's loaded state
}

// AgentInfo describes one installed agent.
// Fields are ordered to minimize memory padding.
type AgentInfo struct {
	Config   *domain.TaskConfig // Nil when the definition could not be parsed
	ParseErr error              // Why Config is nil
	LoadErr  error              // Why Loaded is unknown
	Path     string
	TaskName string
	Label    string
	Loaded   bool
}

// ListAgentsOutput contains the result of listing agents.
type ListAgentsOutput struct {
	Agents []AgentInfo
}

// ListAgents lists the agents installed for a domain.
type ListAgents struct {
	store  domain.AgentStore
	codec  domain.PlistCodec
	runner domain.AgentRunner
}

// NewListAgents creates a new ListAgents use case.
func NewListAgents(store domain.AgentStore, codec domain.PlistCodec, runner domain.AgentRunner) *ListAgents {
	return &ListAgents{
		store:  store,
		codec:  codec,
		runner: runner,
	}
}

// Execute scans the agents directory. Definitions that cannot be read or
// parsed are reported with ParseErr rather than skipped.
func (uc *ListAgents) Execute(ctx context.Context, in ListAgentsInput) (*ListAgentsOutput, error) {
	paths, err := uc.store.Scan(in.Domain)
	if err != nil {
		return nil, fmt.Errorf("scan agents: %w", err)
	}

	agents := make([]AgentInfo, 0, len(paths))
	for _, path := range paths {
		task := domain.ExtractTaskName(path, in.Domain)
		info := AgentInfo{
			Path:     path,
			TaskName: task,
			Label:    domain.Label(in.Domain, task),
		}

		content, err := uc.store.Read(path)
		if err != nil {
			info.ParseErr = err
		} else if cfg, err := uc.codec.Decode(content); err != nil {
			info.ParseErr = err
		} else {
			info.Config = cfg
		}

		if in.CheckLoaded {
			info.Loaded, info.LoadErr = uc.runner.IsLoaded(ctx, info.Label)
		}

		agents = append(agents, info)
	}

	return &ListAgentsOutput{Agents: agents}, nil
}
