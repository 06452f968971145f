// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries bypass the aggregates and read committed rows directly, returning
// read models shaped for the API.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetAvailableAgentsQueryIsNotConstructed = errors.New(
	"GetAvailableAgentsQuery must be created via NewGetAvailableAgentsQuery constructor",
)

// GetAvailableAgentsQuery retrieves every delivery agent currently accepting
// work, in the order assignment would consider them.
type GetAvailableAgentsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAvailableAgentsQuery creates a query for the available agent pool.
func NewGetAvailableAgentsQuery() GetAvailableAgentsQuery {
	return GetAvailableAgentsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableAgentsQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableAgentsQueryIsNotConstructed)
}

// GetAvailableAgentsQueryResponse is one available agent in the read model.
type GetAvailableAgentsQueryResponse struct {
	ID           kernel.UUID
	Name         string
	RegisteredAt time.Time
}
