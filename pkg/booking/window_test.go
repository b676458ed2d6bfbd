package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"furnishcare_backend/pkg/booking"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeServiceWindow(t *testing.T) {
	t.Run("start is 90 days after purchase", func(t *testing.T) {
		start, end := booking.ComputeServiceWindow(date(2024, time.January, 1))

		assert.Equal(t, date(2024, time.March, 31), start)
		assert.Equal(t, date(2025, time.January, 1), end)
	})

	t.Run("start always precedes end", func(t *testing.T) {
		buyDates := []time.Time{
			date(2023, time.June, 15),
			date(2024, time.February, 29),
			date(2024, time.December, 31),
			date(2025, time.August, 1),
		}

		for _, buyDate := range buyDates {
			start, end := booking.ComputeServiceWindow(buyDate)

			assert.Equal(t, buyDate.AddDate(0, 0, 90), start)
			assert.Equal(t, buyDate.AddDate(1, 0, 0), end)
			assert.True(t, start.Before(end))
		}
	})

	t.Run("leap day purchase rolls over", func(t *testing.T) {
		_, end := booking.ComputeServiceWindow(date(2024, time.February, 29))

		// 2025 has no Feb 29; AddDate normalizes to March 1.
		assert.Equal(t, date(2025, time.March, 1), end)
	})
}
