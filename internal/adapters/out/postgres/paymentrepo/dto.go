// Package paymentrepo persists the payment aggregate, mapping between
// domain entities and relational rows. The unique index on order_id backs
// the one-payment-per-order guarantee.
package paymentrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDTO represents the database structure for persisting payment
// aggregates.
type PaymentDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RestaurantShare decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          int             `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null"`
}

// TableName specifies the database table name for payment entities.
func (PaymentDTO) TableName() string {
	return "payments"
}

// fromDomain converts a payment domain aggregate to its database
// representation.
func fromDomain(aggregate *payment.Payment) PaymentDTO {
	return PaymentDTO{
		ID:              aggregate.ID().Bytes(),
		OrderID:         aggregate.OrderID().Bytes(),
		TotalAmount:     aggregate.TotalAmount().Decimal(),
		RestaurantShare: aggregate.RestaurantShare().Decimal(),
		DeliveryFee:     aggregate.DeliveryFee().Decimal(),
		Status:          int(aggregate.Status()),
		CreatedAt:       aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to a payment domain aggregate using
// RestorePayment.
func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	totalAmount, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}
	restaurantShare, err := kernel.NewMoney(dto.RestaurantShare)
	if err != nil {
		return nil, err
	}
	deliveryFee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return nil, err
	}

	return payment.RestorePayment(id, orderID, totalAmount, restaurantShare,
		deliveryFee, payment.Status(dto.Status), dto.CreatedAt)
}
