package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"furnishcare_backend/pkg/booking"
	"furnishcare_backend/pkg/plan"
)

func TestCalculateCancellationFee(t *testing.T) {
	endDate := date(2025, time.January, 1)

	t.Run("flat fee of one month while window is open", func(t *testing.T) {
		fee := booking.CalculateCancellationFee(plan.Basic, endDate, date(2024, time.May, 1))

		assert.True(t, fee.ShouldApplyFee)
		assert.Equal(t, int64(1999), fee.FeeAmountCents)
		assert.Equal(t, 1, fee.MonthsCharged)
		assert.Equal(t, "$19.99", fee.FeeAmountFormatted())
	})

	t.Run("fee is independent of remaining time", func(t *testing.T) {
		early := booking.CalculateCancellationFee(plan.Standard, endDate, date(2024, time.February, 1))
		late := booking.CalculateCancellationFee(plan.Standard, endDate, date(2024, time.December, 31))

		assert.Equal(t, early.FeeAmountCents, late.FeeAmountCents)
		assert.Equal(t, int64(2999), early.FeeAmountCents)
	})

	t.Run("no fee after window end", func(t *testing.T) {
		fee := booking.CalculateCancellationFee(plan.Standard, endDate, date(2025, time.February, 1))

		assert.False(t, fee.ShouldApplyFee)
		assert.Zero(t, fee.FeeAmountCents)
		assert.Zero(t, fee.MonthsCharged)
		assert.Contains(t, fee.Reason, "ended")
	})

	t.Run("no fee for unknown plan regardless of dates", func(t *testing.T) {
		fee := booking.CalculateCancellationFee("platinum", endDate, date(2024, time.May, 1))

		assert.False(t, fee.ShouldApplyFee)
		assert.Zero(t, fee.FeeAmountCents)
		assert.Contains(t, fee.Reason, "not found")
	})
}
