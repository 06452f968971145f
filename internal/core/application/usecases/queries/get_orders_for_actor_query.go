package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrdersForActorQueryIsNotConstructed = errors.New(
	"GetOrdersForActorQuery must be created via NewGetOrdersForActorQuery constructor",
)

// GetOrdersForActorQuery retrieves the orders visible to one actor. Each
// role sees its own slice of the ledger: customers their orders, restaurant
// owners their restaurant's, delivery agents the orders assigned to them,
// and administrators everything.
type GetOrdersForActorQuery struct {
	by actor.Actor

	guard guard.ConstructorGuard
}

// NewGetOrdersForActorQuery creates an order listing query for the given
// actor.
func NewGetOrdersForActorQuery(by actor.Actor) (GetOrdersForActorQuery, error) {
	if err := by.Validate(); err != nil {
		return GetOrdersForActorQuery{}, err
	}

	return GetOrdersForActorQuery{
		by:    by,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// By returns the actor the listing is scoped to.
func (q GetOrdersForActorQuery) By() actor.Actor {
	return q.by
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersForActorQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersForActorQueryIsNotConstructed)
}

// GetOrdersForActorQueryResponse is one order row in the read model.
type GetOrdersForActorQueryResponse struct {
	ID           kernel.UUID
	CustomerID   kernel.UUID
	RestaurantID kernel.UUID
	AgentID      *kernel.UUID
	Status       order.Status
	Total        kernel.Money
	Version      int
	CreatedAt    time.Time
}
