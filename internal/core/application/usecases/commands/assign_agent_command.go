package commands

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

// AssignAgentCommand represents a system-triggered request to bind the
// oldest accepted order to the first available delivery agent. It carries no
// payload: the handler selects both sides of the match.
type AssignAgentCommand struct {
	guard guard.ConstructorGuard
}

// NewAssignAgentCommand creates a command to run one assignment attempt.
func NewAssignAgentCommand() AssignAgentCommand {
	return AssignAgentCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}
