package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRegisterAgentCommandIsNotConstructed = errors.New(
	"RegisterAgentCommand must be created via NewRegisterAgentCommand constructor",
)

// RegisterAgentCommand represents a request to register a new delivery
// agent. New agents start Available.
type RegisterAgentCommand struct { //nolint:recvcheck //using for validation
	agentID kernel.UUID
	name    string

	guard guard.ConstructorGuard
}

// NewRegisterAgentCommand creates a command to register a delivery agent.
func NewRegisterAgentCommand(agentID kernel.UUID, name string) (RegisterAgentCommand, error) {
	command := RegisterAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setAgentID(agentID),
		command.setName(name),
	); err != nil {
		return RegisterAgentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterAgentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterAgentCommandIsNotConstructed)
}

// AgentID returns the unique identifier for the new agent.
func (c RegisterAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Name returns the agent's display name.
func (c RegisterAgentCommand) Name() string {
	return c.name
}

func (c *RegisterAgentCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	c.agentID = agentID
	return nil
}

func (c *RegisterAgentCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}
