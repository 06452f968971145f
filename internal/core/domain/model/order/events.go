package order

import (
	"marketplace/internal/core/domain/model/kernel"
)

// DomainEvent is a fact recorded by the order aggregate when a transition is
// applied. Events are collected on the aggregate and dispatched by the
// application layer inside the same transaction; consumers (payment
// settlement, agent release) must stay idempotent because delivery is
// at-least-once from their point of view.
type DomainEvent interface {
	EventName() string
	OrderID() kernel.UUID
}

// OrderPlaced is emitted when a customer creates an order.
type OrderPlaced struct {
	orderID kernel.UUID
	total   kernel.Money
}

func (e OrderPlaced) EventName() string { return "order.placed" }
func (e OrderPlaced) OrderID() kernel.UUID { return e.orderID }
func (e OrderPlaced) Total() kernel.Money { return e.total }

// OrderAccepted is emitted when the restaurant confirms an order. It carries
// the frozen total so the payment can be created without re-reading the order.
type OrderAccepted struct {
	orderID kernel.UUID
	total   kernel.Money
}

func (e OrderAccepted) EventName() string { return "order.accepted" }
func (e OrderAccepted) OrderID() kernel.UUID { return e.orderID }
func (e OrderAccepted) Total() kernel.Money { return e.total }

// OrderRejected is emitted when the restaurant declines an order.
type OrderRejected struct {
	orderID kernel.UUID
}

func (e OrderRejected) EventName() string { return "order.rejected" }
func (e OrderRejected) OrderID() kernel.UUID { return e.orderID }

// OrderAssigned is emitted when delivery assignment binds an agent.
type OrderAssigned struct {
	orderID kernel.UUID
	agentID kernel.UUID
}

func (e OrderAssigned) EventName() string { return "order.assigned" }
func (e OrderAssigned) OrderID() kernel.UUID { return e.orderID }
func (e OrderAssigned) AgentID() kernel.UUID { return e.agentID }

// OrderPickedUp is emitted when the assigned agent collects the order.
type OrderPickedUp struct {
	orderID kernel.UUID
	agentID kernel.UUID
}

func (e OrderPickedUp) EventName() string { return "order.picked_up" }
func (e OrderPickedUp) OrderID() kernel.UUID { return e.orderID }
func (e OrderPickedUp) AgentID() kernel.UUID { return e.agentID }

// OrderDelivered is emitted when the assigned agent completes the delivery.
type OrderDelivered struct {
	orderID kernel.UUID
	agentID kernel.UUID
}

func (e OrderDelivered) EventName() string { return "order.delivered" }
func (e OrderDelivered) OrderID() kernel.UUID { return e.orderID }
func (e OrderDelivered) AgentID() kernel.UUID { return e.agentID }

// OrderCancelled is emitted when the order is withdrawn. AgentID is nil when
// no agent was bound at cancellation time.
type OrderCancelled struct {
	orderID kernel.UUID
	agentID *kernel.UUID
}

func (e OrderCancelled) EventName() string { return "order.cancelled" }
func (e OrderCancelled) OrderID() kernel.UUID { return e.orderID }
func (e OrderCancelled) AgentID() *kernel.UUID { return e.agentID }
