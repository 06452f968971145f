package eventhandlers

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/errs"
)

// PaymentSettlementHandler owns the payment side of the order lifecycle:
//   - OrderAccepted creates the one Pending payment, split by the fee rate
//   - OrderDelivered settles it
//   - OrderRejected and OrderCancelled refund it, if one was ever created
//
// An acceptance event delivered twice hits the one-to-one guard and returns
// payment.ErrDuplicatePayment. Settle and Refund are idempotent on the
// aggregate.
type PaymentSettlementHandler struct {
	feeRate float64
}

// NewPaymentSettlementHandler creates the handler with the configured
// marketplace fee rate.
func NewPaymentSettlementHandler(feeRate float64) PaymentSettlementHandler {
	return PaymentSettlementHandler{feeRate: feeRate}
}

// Handle consumes one order event.
func (h PaymentSettlementHandler) Handle(ctx context.Context, uow commands.UoW, event order.DomainEvent) error {
	switch e := event.(type) {
	case order.OrderAccepted:
		return h.createPayment(ctx, uow, e)
	case order.OrderDelivered:
		return h.settle(ctx, uow, e.OrderID())
	case order.OrderRejected:
		return h.refund(ctx, uow, e.OrderID())
	case order.OrderCancelled:
		return h.refund(ctx, uow, e.OrderID())
	default:
		return nil
	}
}

func (h PaymentSettlementHandler) createPayment(ctx context.Context, uow commands.UoW, e order.OrderAccepted) error {
	paymentRepo := uow.PaymentRepository()

	_, err := paymentRepo.GetByOrderID(ctx, e.OrderID())
	if err == nil {
		return payment.ErrDuplicatePayment
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	newPayment, err := payment.NewPayment(
		kernel.NewUUID(), e.OrderID(), e.Total(), h.feeRate, time.Now())
	if err != nil {
		return err
	}

	return paymentRepo.Add(ctx, newPayment)
}

func (h PaymentSettlementHandler) settle(ctx context.Context, uow commands.UoW, orderID kernel.UUID) error {
	paymentRepo := uow.PaymentRepository()

	aggregate, err := paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	if err = aggregate.Settle(); err != nil {
		return err
	}

	return paymentRepo.Update(ctx, aggregate)
}

// refund tolerates a missing payment: rejection and pre-acceptance
// cancellation happen before any payment exists.
func (h PaymentSettlementHandler) refund(ctx context.Context, uow commands.UoW, orderID kernel.UUID) error {
	paymentRepo := uow.PaymentRepository()

	aggregate, err := paymentRepo.GetByOrderID(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = aggregate.Refund(); err != nil {
		return err
	}

	return paymentRepo.Update(ctx, aggregate)
}
