package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
)

// PaymentRepository defines the persistence contract for payment aggregates.
type PaymentRepository interface {
	// Add persists a new payment aggregate to storage. The store enforces
	// the one-to-one order binding with a unique index on the order id;
	// inserting a second payment for the same order returns
	// payment.ErrDuplicatePayment.
	Add(ctx context.Context, aggregate *payment.Payment) error

	// Update persists changes to an existing payment aggregate.
	Update(ctx context.Context, aggregate *payment.Payment) error

	// GetByOrderID retrieves the payment bound to an order, or
	// errs.ObjectNotFoundError when none exists yet.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error)
}
