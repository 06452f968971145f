// Package eventhandlers contains the consumers of order domain events:
// payment settlement and agent release. Handlers run inside the transaction
// that committed the triggering transition and must stay idempotent, since
// delivery is at-least-once from their point of view.
package eventhandlers

import (
	"context"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/order"
)

// Handler consumes one domain event against repositories bound to the
// current unit of work. Handlers ignore event types they do not care about.
type Handler interface {
	Handle(ctx context.Context, uow commands.UoW, event order.DomainEvent) error
}

// Dispatcher fans events out to the registered handlers in registration
// order. It implements commands.EventDispatcher.
type Dispatcher struct {
	handlers []Handler
}

// NewDispatcher creates a dispatcher over the given handlers.
func NewDispatcher(handlers ...Handler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

// Dispatch delivers every event to every handler. The first handler error
// aborts delivery so the surrounding transaction rolls back.
func (d *Dispatcher) Dispatch(ctx context.Context, uow commands.UoW, events []order.DomainEvent) error {
	for _, event := range events {
		for _, handler := range d.handlers {
			if err := handler.Handle(ctx, uow, event); err != nil {
				return err
			}
		}
	}
	return nil
}
