package booking

import (
	"fmt"
	"time"

	"furnishcare_backend/pkg/plan"
)

type CancellationFee struct {
	ShouldApplyFee bool   `json:"should_apply_fee"`
	FeeAmountCents int64  `json:"fee_amount_cents"`
	MonthsCharged  int    `json:"months_charged"`
	Reason         string `json:"reason"`
}

func (f CancellationFee) FeeAmountFormatted() string {
	return fmt.Sprintf("$%.2f", float64(f.FeeAmountCents)/100)
}

// CalculateCancellationFee prices an early exit: a flat fee of one month's
// plan cost, regardless of time or visits remaining. No fee once the service
// window has elapsed, and none for a plan the catalog does not know.
func CalculateCancellationFee(planID plan.PlanID, serviceEndTime, now time.Time) CancellationFee {
	if serviceEndTime.Before(now) {
		return CancellationFee{
			Reason: "Subscription has ended - no cancellation fee",
		}
	}

	p, ok := plan.Get(planID)
	if !ok {
		return CancellationFee{
			Reason: "Plan not found - no cancellation fee",
		}
	}

	return CancellationFee{
		ShouldApplyFee: true,
		FeeAmountCents: p.PriceCents,
		MonthsCharged:  1,
		Reason:         "Cancellation fee is one month's plan cost",
	}
}
