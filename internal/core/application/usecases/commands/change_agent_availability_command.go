package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrChangeAgentAvailabilityCommandIsNotConstructed = errors.New(
	"ChangeAgentAvailabilityCommand must be created via NewChangeAgentAvailabilityCommand constructor",
)

// ChangeAgentAvailabilityCommand represents a request to move an agent
// between Available and Offline. Busy is system-managed and cannot be
// requested.
type ChangeAgentAvailabilityCommand struct { //nolint:recvcheck //using for validation
	agentID      kernel.UUID
	availability agent.Availability
	by           actor.Actor

	guard guard.ConstructorGuard
}

// NewChangeAgentAvailabilityCommand creates a command to change an agent's
// duty state on behalf of a resolved actor.
func NewChangeAgentAvailabilityCommand(
	agentID kernel.UUID,
	availability agent.Availability,
	by actor.Actor,
) (ChangeAgentAvailabilityCommand, error) {
	command := ChangeAgentAvailabilityCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setAgentID(agentID),
		command.setAvailability(availability),
		command.setBy(by),
	); err != nil {
		return ChangeAgentAvailabilityCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeAgentAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrChangeAgentAvailabilityCommandIsNotConstructed)
}

// AgentID returns the id of the agent to change.
func (c ChangeAgentAvailabilityCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Availability returns the requested duty state.
func (c ChangeAgentAvailabilityCommand) Availability() agent.Availability {
	return c.availability
}

// By returns the actor requesting the change.
func (c ChangeAgentAvailabilityCommand) By() actor.Actor {
	return c.by
}

func (c *ChangeAgentAvailabilityCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	c.agentID = agentID
	return nil
}

func (c *ChangeAgentAvailabilityCommand) setAvailability(availability agent.Availability) error {
	if err := availability.Validate(); err != nil {
		return err
	}
	c.availability = availability
	return nil
}

func (c *ChangeAgentAvailabilityCommand) setBy(by actor.Actor) error {
	if err := by.Validate(); err != nil {
		return err
	}
	c.by = by
	return nil
}
