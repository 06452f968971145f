package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrNoAgentAvailable is returned when every registered agent is Busy or
	// Offline. The accepted order stays in the backlog for the next attempt.
	ErrNoAgentAvailable = errors.New("no agent available")

	// ErrNoOrderFound is returned when no accepted order is waiting for
	// assignment.
	ErrNoOrderFound = errors.New("no order found")
)

// AssignAgentCommandHandler orchestrates delivery assignment. It picks the
// oldest accepted unassigned order, matches it against available agents with
// the first-available policy, and commits the order binding and the agent
// reservation in a single transaction, keeping the exclusivity invariant.
type AssignAgentCommandHandler struct {
	uowFactory UoWFactory
	dispatcher EventDispatcher
}

// NewAssignAgentCommandHandler creates a handler for assignment operations.
func NewAssignAgentCommandHandler(uowFactory UoWFactory, dispatcher EventDispatcher) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle processes one assignment attempt. Returns ErrNoOrderFound when the
// backlog is empty and ErrNoAgentAvailable when nobody can take the order;
// both are expected outcomes for the periodic retry loop, not faults.
func (h AssignAgentCommandHandler) Handle(ctx context.Context, command AssignAgentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	agentRepo := uow.AgentRepository()

	aggregate, err := orderRepo.GetFirstInAcceptedStatus(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoOrderFound
	}
	if err != nil {
		return err
	}

	agents, err := agentRepo.GetAllAvailable(ctx)
	if err != nil {
		return err
	}
	if len(agents) == 0 {
		return ErrNoAgentAvailable
	}

	assigned, err := services.NewAgentDispatcher().Dispatch(aggregate, agents, time.Now())
	if errors.Is(err, services.ErrAgentNotFound) {
		return ErrNoAgentAvailable
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = agentRepo.Update(ctx, assigned); err != nil {
		return err
	}

	if err = h.dispatcher.Dispatch(ctx, uow, aggregate.Events()); err != nil {
		return err
	}
	aggregate.ClearEvents()

	return uow.Commit(ctx)
}
