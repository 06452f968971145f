package commands

import (
	"context"
	"time"
)

// TransitionOrderCommandHandler handles actor-requested lifecycle
// transitions. The transition, the optimistic version check, and all event
// side effects (payment creation, settlement, refund, agent release) commit
// in one transaction, so a failed call leaves every record untouched.
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher EventDispatcher
}

// NewTransitionOrderCommandHandler creates a handler for lifecycle transitions.
func NewTransitionOrderCommandHandler(uowFactory UoWFactory, dispatcher EventDispatcher) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle processes the transition command. Concurrent transitions on the
// same order serialize through the order's version: the repository update
// fails with a version error for every caller that loaded a stale aggregate,
// so exactly one writer wins.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, command TransitionOrderCommand) error {
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

	aggregate, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.TransitionTo(command.Target(), command.By(), time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = h.dispatcher.Dispatch(ctx, uow, aggregate.Events()); err != nil {
		return err
	}
	aggregate.ClearEvents()

	return uow.Commit(ctx)
}
