package eventhandlers

import (
	"context"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// AgentReleaseHandler frees the delivery agent when an order leaves the
// active part of its lifecycle: delivered, or cancelled while an agent was
// bound. Release is idempotent on the aggregate, so redelivered events are
// harmless.
type AgentReleaseHandler struct{}

// NewAgentReleaseHandler creates the handler.
func NewAgentReleaseHandler() AgentReleaseHandler {
	return AgentReleaseHandler{}
}

// Handle consumes one order event.
func (h AgentReleaseHandler) Handle(ctx context.Context, uow commands.UoW, event order.DomainEvent) error {
	switch e := event.(type) {
	case order.OrderDelivered:
		return h.release(ctx, uow, e.AgentID(), e.OrderID())
	case order.OrderCancelled:
		if e.AgentID() == nil {
			return nil
		}
		return h.release(ctx, uow, *e.AgentID(), e.OrderID())
	default:
		return nil
	}
}

func (h AgentReleaseHandler) release(ctx context.Context, uow commands.UoW, agentID, orderID kernel.UUID) error {
	agentRepo := uow.AgentRepository()

	aggregate, err := agentRepo.Get(ctx, agentID)
	if err != nil {
		return err
	}

	if err = aggregate.Release(orderID); err != nil {
		return err
	}

	return agentRepo.Update(ctx, aggregate)
}
