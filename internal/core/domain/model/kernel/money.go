package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of decimal places every Money amount is kept at.
const moneyScale = 2

// ErrMoneyIsNotConstructed indicates a zero-value Money that bypassed the
// constructor functions.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"Money must be created via NewMoney or MoneyFromString")

// Money is an immutable monetary amount value object backed by exact decimal
// arithmetic. Amounts are normalized to two decimal places so that sums and
// splits never lose a remainder to floating point representation.
//
// Money is used for menu item price snapshots, frozen order totals, and
// payment splits. The zero value is invalid; use a constructor.
type Money struct {
	amount decimal.Decimal

	guard guard.ConstructorGuard
}

// NewMoney creates a Money amount from a decimal value, rounding half-even
// to two decimal places. Negative amounts are rejected.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is negative", amount))
	}

	return Money{
		amount: amount.RoundBank(moneyScale),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// MoneyFromString parses a decimal string such as "13.00" into Money.
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

// ZeroMoney returns a valid Money of 0.00.
func ZeroMoney() Money {
	return Money{
		amount: decimal.Zero,
		guard:  guard.NewConstructorGuard(),
	}
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if err := other.Validate(); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount))
}

// Sub returns the difference of two amounts. A negative result is rejected:
// shares are always carved out of a larger total.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if err := other.Validate(); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount))
}

// MulQuantity returns the amount multiplied by an integral quantity.
func (m Money) MulQuantity(quantity int) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if quantity < 1 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(quantity))))
}

// MulRate returns the amount multiplied by a fractional rate, rounded
// half-even to two decimal places. Rates must lie in [0, 1].
func (m Money) MulRate(rate decimal.Decimal) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return Money{}, errs.NewValueIsOutOfRangeError("rate", rate.String(), "0", "1")
	}
	return NewMoney(m.amount.Mul(rate))
}

// IsEqual reports whether two amounts are exactly equal.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// IsZero reports whether the amount is 0.00.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Decimal returns the underlying decimal value for persistence mapping.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the amount with two decimal places, e.g. "13.00".
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}

// Validate returns ErrMoneyIsNotConstructed for the zero value.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}
