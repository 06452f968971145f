package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

// GetOrderHistoryQuery retrieves the transition log of one order. Visibility
// follows the same ownership rule as the order listing: the customer who
// placed it, the owner of the restaurant it targets, the agent assigned to
// it, or any administrator.
type GetOrderHistoryQuery struct {
	orderID kernel.UUID
	by      actor.Actor

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery creates a history query for the given order and
// actor.
func NewGetOrderHistoryQuery(orderID kernel.UUID, by actor.Actor) (GetOrderHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderHistoryQuery{}, err
	}
	if err := by.Validate(); err != nil {
		return GetOrderHistoryQuery{}, err
	}

	return GetOrderHistoryQuery{
		orderID: orderID,
		by:      by,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order the history is requested for.
func (q GetOrderHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// By returns the requesting actor.
func (q GetOrderHistoryQuery) By() actor.Actor {
	return q.by
}

// Validate ensures the query was created through the constructor.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

// GetOrderHistoryQueryResponse is one transition log entry in the read
// model, ordered by Seq ascending.
type GetOrderHistoryQueryResponse struct {
	Seq     int
	From    order.Status
	To      order.Status
	Role    actor.Role
	ActorID kernel.UUID
	At      time.Time
}
