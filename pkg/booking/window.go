package booking

import "time"

// GracePeriodDays is how long after purchase the first service visit can be
// booked. Calendar days, not business days.
const GracePeriodDays = 90

// ComputeServiceWindow returns the service window for a subscription bought at
// buyDate: visits can be booked from 90 days after purchase until one calendar
// year after purchase. AddDate handles rollover for dates like Feb 29.
func ComputeServiceWindow(buyDate time.Time) (start, end time.Time) {
	start = buyDate.AddDate(0, 0, GracePeriodDays)
	end = buyDate.AddDate(1, 0, 0)
	return start, end
}
