package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/agent"
)

// RegisterAgentCommandHandler handles the business logic for agent
// registration.
type RegisterAgentCommandHandler struct {
	uowFactory AgentUoWFactory
}

// NewRegisterAgentCommandHandler creates a handler for agent registration.
func NewRegisterAgentCommandHandler(uowFactory AgentUoWFactory) RegisterAgentCommandHandler {
	return RegisterAgentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the registration command. The registration time is
// recorded because the assignment policy prefers the earliest registered
// available agent.
func (h RegisterAgentCommandHandler) Handle(ctx context.Context, command RegisterAgentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	newAgent, err := agent.NewDeliveryAgent(command.AgentID(), command.Name(), time.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.AgentRepository().Add(ctx, newAgent); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
