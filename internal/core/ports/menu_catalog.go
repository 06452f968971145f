package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// MenuItem is the read model of a catalog entry. Menu lifecycle lives
// outside the order core; placement only needs the current price, the
// owning restaurant and the availability flag to decide whether the line
// can be priced.
type MenuItem struct {
	ID           kernel.UUID
	RestaurantID kernel.UUID
	Name         string
	Price        kernel.Money
	Available    bool
}

// MenuCatalog defines the read-only contract for resolving menu items at
// order placement time.
type MenuCatalog interface {
	// GetMenuItem retrieves a catalog entry by id, or
	// errs.ObjectNotFoundError when it does not exist.
	GetMenuItem(ctx context.Context, id kernel.UUID) (MenuItem, error)
}
