package payment_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func pendingPayment(t *testing.T) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(
		kernel.NewUUID(), kernel.NewUUID(), mustMoney(t, "13.00"), 0.15, time.Now())
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	t.Run("should split total by fee rate", func(t *testing.T) {
		p, err := payment.NewPayment(
			kernel.NewUUID(), kernel.NewUUID(), mustMoney(t, "13.00"), 0.15, time.Now())

		require.NoError(t, err)
		assert.Equal(t, payment.Pending, p.Status())
		assert.Equal(t, "13.00", p.TotalAmount().String())
		assert.Equal(t, "11.05", p.RestaurantShare().String())
		assert.Equal(t, "1.95", p.DeliveryFee().String())
	})

	t.Run("split always recombines into the total", func(t *testing.T) {
		totals := []string{"13.00", "0.01", "9.99", "100.00", "33.33"}

		for _, total := range totals {
			p, err := payment.NewPayment(
				kernel.NewUUID(), kernel.NewUUID(), mustMoney(t, total), 0.15, time.Now())
			require.NoError(t, err)

			sum, err := p.RestaurantShare().Add(p.DeliveryFee())
			require.NoError(t, err)
			assert.True(t, sum.IsEqual(p.TotalAmount()), "total %s", total)
		}
	})

	t.Run("should reject fee rate outside the unit interval", func(t *testing.T) {
		for _, rate := range []float64{-0.1, 1.5} {
			_, err := payment.NewPayment(
				kernel.NewUUID(), kernel.NewUUID(), mustMoney(t, "13.00"), rate, time.Now())
			require.Error(t, err)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("zero value payment fails validation", func(t *testing.T) {
		var p payment.Payment
		require.ErrorIs(t, p.Validate(), payment.ErrPaymentIsNotConstructed)
	})
}

func TestPayment_Settle(t *testing.T) {
	t.Run("should settle pending payment", func(t *testing.T) {
		p := pendingPayment(t)

		require.NoError(t, p.Settle())
		assert.Equal(t, payment.Settled, p.Status())
	})

	t.Run("settling twice is a no-op", func(t *testing.T) {
		p := pendingPayment(t)
		require.NoError(t, p.Settle())

		require.NoError(t, p.Settle())
		assert.Equal(t, payment.Settled, p.Status())
	})

	t.Run("should not settle a refunded payment", func(t *testing.T) {
		p := pendingPayment(t)
		require.NoError(t, p.Refund())

		err := p.Settle()

		require.ErrorIs(t, err, errs.ErrInvariantViolation)
		assert.Equal(t, payment.Refunded, p.Status())
	})
}

func TestPayment_Refund(t *testing.T) {
	t.Run("should refund pending payment", func(t *testing.T) {
		p := pendingPayment(t)

		require.NoError(t, p.Refund())
		assert.Equal(t, payment.Refunded, p.Status())
	})

	t.Run("refunding twice is a no-op", func(t *testing.T) {
		p := pendingPayment(t)
		require.NoError(t, p.Refund())

		require.NoError(t, p.Refund())
		assert.Equal(t, payment.Refunded, p.Status())
	})

	t.Run("refunding a settled payment violates the invariant", func(t *testing.T) {
		p := pendingPayment(t)
		require.NoError(t, p.Settle())

		err := p.Refund()

		require.ErrorIs(t, err, errs.ErrInvariantViolation)
		assert.Equal(t, payment.Settled, p.Status())
	})
}

func TestRestorePayment(t *testing.T) {
	t.Run("should restore settled payment", func(t *testing.T) {
		p, err := payment.RestorePayment(
			kernel.NewUUID(), kernel.NewUUID(),
			mustMoney(t, "13.00"), mustMoney(t, "11.05"), mustMoney(t, "1.95"),
			payment.Settled, time.Now())

		require.NoError(t, err)
		assert.Equal(t, payment.Settled, p.Status())
	})

	t.Run("should reject split that does not recombine", func(t *testing.T) {
		_, err := payment.RestorePayment(
			kernel.NewUUID(), kernel.NewUUID(),
			mustMoney(t, "13.00"), mustMoney(t, "11.00"), mustMoney(t, "1.95"),
			payment.Pending, time.Now())

		require.ErrorIs(t, err, errs.ErrInvariantViolation)
	})
}
