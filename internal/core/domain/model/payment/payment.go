package payment

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrPaymentIsNotConstructed is returned when using an improperly
	// initialized Payment.
	ErrPaymentIsNotConstructed = errors.New(
		"Payment must be created via NewPayment or RestorePayment")

	// ErrDuplicatePayment is returned when a payment already exists for the
	// order. It is the idempotency guard against duplicate delivery of the
	// acceptance event: one order has exactly one payment.
	ErrDuplicatePayment = errors.New("payment already exists for order")

	// ErrAlreadySettled is returned when a refund is requested for a settled
	// payment. Cancellation after delivery is illegal in the order lifecycle,
	// so this state is unreachable and reported as an invariant violation.
	ErrAlreadySettled = errs.NewInvariantViolationErrorWithCause("payment",
		errors.New("settled payment cannot be refunded"))
)

// Payment is the aggregate root for the money side of one order. It is
// created exactly once, when the restaurant accepts the order, and splits
// the frozen total into the restaurant's share and the delivery fee.
//
// Invariants:
//   - one-to-one with its order
//   - restaurantShare + deliveryFee = totalAmount, exact to the cent
//   - Pending is the only initial status; Settled and Refunded are terminal
type Payment struct {
	id              kernel.UUID
	orderID         kernel.UUID
	totalAmount     kernel.Money
	restaurantShare kernel.Money
	deliveryFee     kernel.Money
	status          Status
	createdAt       time.Time

	guard guard.ConstructorGuard
}

// NewPayment creates a Pending payment for an accepted order. The delivery
// fee is totalAmount times feeRate rounded to the cent; the restaurant share is
// the remainder, so the two always recombine into the total exactly.
func NewPayment(id, orderID kernel.UUID, totalAmount kernel.Money, feeRate float64, now time.Time) (*Payment, error) {
	p := &Payment{
		status:    Pending,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
	); err != nil {
		return nil, err
	}

	if err := totalAmount.Validate(); err != nil {
		return nil, err
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("now")
	}

	fee, err := totalAmount.MulRate(decimal.NewFromFloat(feeRate))
	if err != nil {
		return nil, err
	}
	share, err := totalAmount.Sub(fee)
	if err != nil {
		return nil, err
	}

	p.totalAmount = totalAmount
	p.deliveryFee = fee
	p.restaurantShare = share

	return p, nil
}

// RestorePayment reconstructs a payment aggregate from persistence. The
// split invariant is re-checked: a stored split that does not recombine into
// the total is corrupt data, not caller error.
func RestorePayment(
	id, orderID kernel.UUID,
	totalAmount, restaurantShare, deliveryFee kernel.Money,
	status Status,
	createdAt time.Time,
) (*Payment, error) {
	p := &Payment{
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
		p.setStatus(status),
	); err != nil {
		return nil, err
	}

	if err := errors.Join(
		totalAmount.Validate(),
		restaurantShare.Validate(),
		deliveryFee.Validate(),
	); err != nil {
		return nil, err
	}

	recombined, err := restaurantShare.Add(deliveryFee)
	if err != nil {
		return nil, err
	}
	if !recombined.IsEqual(totalAmount) {
		return nil, errs.NewInvariantViolationErrorWithCause("payment",
			fmt.Errorf("split %s + %s does not equal total %s",
				restaurantShare, deliveryFee, totalAmount))
	}

	p.totalAmount = totalAmount
	p.restaurantShare = restaurantShare
	p.deliveryFee = deliveryFee

	return p, nil
}

// Validate ensures the payment was built through a constructor.
func (p *Payment) Validate() error {
	if p == nil {
		return ErrPaymentIsNotConstructed
	}
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

// IsEqual compares two payments by id.
func (p *Payment) IsEqual(other *Payment) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the payment's unique identifier.
func (p *Payment) ID() kernel.UUID {
	return p.id
}

// OrderID returns the id of the order this payment settles.
func (p *Payment) OrderID() kernel.UUID {
	return p.orderID
}

// TotalAmount returns the order total the payment was created with.
func (p *Payment) TotalAmount() kernel.Money {
	return p.totalAmount
}

// RestaurantShare returns the restaurant's portion of the total.
func (p *Payment) RestaurantShare() kernel.Money {
	return p.restaurantShare
}

// DeliveryFee returns the marketplace's delivery portion of the total.
func (p *Payment) DeliveryFee() kernel.Money {
	return p.deliveryFee
}

// Status returns the settlement status.
func (p *Payment) Status() Status {
	return p.status
}

// CreatedAt returns the time the payment was created.
func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

// Settle finalizes the payment after a completed delivery, Pending to
// Settled. Settling an already settled payment is a no-op so the delivery
// event can be redelivered safely.
func (p *Payment) Settle() error {
	if err := p.Validate(); err != nil {
		return err
	}

	switch p.status {
	case Pending:
		p.status = Settled
		return nil
	case Settled:
		return nil
	case Refunded, UnknownStatus:
		return errs.NewInvariantViolationErrorWithCause("payment",
			fmt.Errorf("%s payment cannot be settled", p.status))
	default:
		return errs.NewInvariantViolationErrorWithCause("payment",
			fmt.Errorf("%s payment cannot be settled", p.status))
	}
}

// Refund returns the payment after rejection or cancellation, Pending to
// Refunded. Refunding an already refunded payment is a no-op; refunding a
// settled payment is ErrAlreadySettled, since the order lifecycle makes
// cancellation after delivery unreachable.
func (p *Payment) Refund() error {
	if err := p.Validate(); err != nil {
		return err
	}

	switch p.status {
	case Pending:
		p.status = Refunded
		return nil
	case Refunded:
		return nil
	case Settled:
		return ErrAlreadySettled
	case UnknownStatus:
		return errs.NewInvariantViolationErrorWithCause("payment",
			fmt.Errorf("%s payment cannot be refunded", p.status))
	default:
		return errs.NewInvariantViolationErrorWithCause("payment",
			fmt.Errorf("%s payment cannot be refunded", p.status))
	}
}

func (p *Payment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Payment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	p.orderID = orderID
	return nil
}

func (p *Payment) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	p.status = status
	return nil
}
