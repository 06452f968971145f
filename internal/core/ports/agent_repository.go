// Package ports defines the persistence contracts between the domain layer
// and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for delivery agent
// aggregates.
type AgentRepository interface {
	// Add persists a new agent aggregate to storage.
	Add(ctx context.Context, aggregate *agent.DeliveryAgent) error

	// Update persists changes to an existing agent aggregate.
	Update(ctx context.Context, aggregate *agent.DeliveryAgent) error

	// Get retrieves an agent aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*agent.DeliveryAgent, error)

	// GetAllAvailable retrieves all agents in Available status, ordered by
	// registration time ascending so the assignment policy stays
	// deterministic.
	GetAllAvailable(ctx context.Context) ([]*agent.DeliveryAgent, error)
}
