package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/pkg/errs"
)

// ChangeAgentAvailabilityCommandHandler handles duty state changes. Agents
// may change their own availability; administrators may change anyone's.
type ChangeAgentAvailabilityCommandHandler struct {
	uowFactory AgentUoWFactory
}

// NewChangeAgentAvailabilityCommandHandler creates a handler for
// availability changes.
func NewChangeAgentAvailabilityCommandHandler(uowFactory AgentUoWFactory) ChangeAgentAvailabilityCommandHandler {
	return ChangeAgentAvailabilityCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the availability change. The aggregate rejects the change
// while the agent carries an active order.
func (h ChangeAgentAvailabilityCommandHandler) Handle(ctx context.Context, command ChangeAgentAvailabilityCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if err := h.authorize(command); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	agentRepo := uow.AgentRepository()

	aggregate, err := agentRepo.Get(ctx, command.AgentID())
	if err != nil {
		return err
	}

	switch command.Availability() {
	case agent.Available:
		err = aggregate.GoOnline()
	case agent.Offline:
		err = aggregate.GoOffline()
	case agent.Busy, agent.UnknownAvailability:
		err = errs.NewValueIsInvalidError("availability")
	default:
		err = errs.NewValueIsInvalidError("availability")
	}
	if err != nil {
		return err
	}

	if err = agentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h ChangeAgentAvailabilityCommandHandler) authorize(command ChangeAgentAvailabilityCommand) error {
	by := command.By()

	switch by.Role() {
	case actor.Administrator:
		return nil
	case actor.DeliveryAgent:
		if by.ID().IsEqual(command.AgentID()) {
			return nil
		}
		return errs.NewAuthorizationErrorWithCause("actor",
			errors.New("agents may only change their own availability"))
	case actor.Customer, actor.RestaurantOwner, actor.System, actor.UnknownRole:
		return errs.NewAuthorizationErrorWithCause("actor",
			errors.New("role may not change agent availability"))
	default:
		return errs.NewAuthorizationErrorWithCause("actor",
			errors.New("role may not change agent availability"))
	}
}
