package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents an actor's request to move an order to a
// target lifecycle status: accept, reject, pick up, deliver, or cancel.
// Assignment is not requestable through this command; it is driven by the
// system through AssignAgentCommand.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	by      actor.Actor

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to transition an order on
// behalf of a resolved actor.
func NewTransitionOrderCommand(orderID kernel.UUID, target order.Status, by actor.Actor) (TransitionOrderCommand, error) {
	command := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setTarget(target),
		command.setBy(by),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the id of the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested lifecycle status.
func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

// By returns the actor requesting the transition.
func (c TransitionOrderCommand) By() actor.Actor {
	return c.by
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}

func (c *TransitionOrderCommand) setBy(by actor.Actor) error {
	if err := by.Validate(); err != nil {
		return err
	}
	c.by = by
	return nil
}
