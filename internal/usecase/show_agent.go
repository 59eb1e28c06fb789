package usecase

import (
	"context"
	"fmt"

	"github.com/den-cli/den/internal/domain"
)

// ShowAgentInput contains the parameters for showing an agent.
type ShowAgentInput struct {
	Domain   string // Label namespace
	TaskName string // Task name within the domain
}

// ShowAgentOutput contains an agent definition.
// Fields are ordered to minimize memory padding.
type ShowAgentOutput struct {
	Config   *domain.TaskConfig // Nil when Content could not be parsed
	ParseErr error              // Why Config is nil
	Path     string
	Content  string // Raw definition
}

// ShowAgent reads one agent definition.
type ShowAgent struct {
	store domain.AgentStore
	codec domain.PlistCodec
}

// NewShowAgent creates a new ShowAgent use case.
func NewShowAgent(store domain.AgentStore, codec domain.PlistCodec) *ShowAgent {
	return &ShowAgent{
		store: store,
		codec: codec,
	}
}

// Execute returns the raw and decoded definition of the agent.
func (uc *ShowAgent) Execute(_ context.Context, in ShowAgentInput) (*ShowAgentOutput, error) {
	path, err := findAgent(uc.store, in.Domain, in.TaskName)
	if err != nil {
		return nil, err
	}

	content, err := uc.store.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read agent definition: %w", err)
	}

	out := &ShowAgentOutput{Path: path, Content: content}
	out.Config, out.ParseErr = uc.codec.Decode(content)
	return out, nil
}
