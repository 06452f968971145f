package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. The write is
	// guarded by the aggregate's optimistic version: it succeeds only when
	// the stored version still matches the one the aggregate was loaded
	// with, and returns errs.VersionIsInvalidError otherwise. A successful
	// update advances the stored version by one.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier, including
	// its items and transition log.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetFirstInAcceptedStatus retrieves the oldest accepted order without
	// an assigned agent. Used by the assignment job to work through the
	// backlog of orders waiting for a free agent.
	GetFirstInAcceptedStatus(ctx context.Context) (*order.Order, error)
}
