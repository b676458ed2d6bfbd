package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/pkg/plan"
)

// SubscriptionStore is the slice of persistence the eligibility engine needs.
// Updates must be conditional on the current counter value so that concurrent
// checks and booking webhooks cannot double-decrement.
type SubscriptionStore interface {
	// FindActive returns the customer's active subscription or
	// ErrNoActiveSubscription.
	FindActive(ctx context.Context, userID uint) (*model.Subscription, error)

	// StepDownServices sets services_left to from-1 only while it still
	// equals from. Returns ErrConflict when the guard fails.
	StepDownServices(ctx context.Context, subscriptionID uint, from int) error
}

// Engine decides whether a customer may book a service visit today.
type Engine struct {
	Store SubscriptionStore

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

const stepDownRetries = 3

// EligibleForService reports whether the customer can book a visit right now.
// A (false, nil) result means "not eligible today"; an error means the check
// itself could not be completed and must not be read as ineligibility.
func (e *Engine) EligibleForService(ctx context.Context, userID uint) (bool, error) {
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}

	for attempt := 0; ; attempt++ {
		sub, err := e.Store.FindActive(ctx, userID)
		if errors.Is(err, ErrNoActiveSubscription) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("eligibility check failed: %w", err)
		}

		p, ok := plan.Get(plan.PlanID(sub.PlanID))
		if !ok {
			return false, fmt.Errorf("%w: %q on subscription %d", ErrUnknownPlan, sub.PlanID, sub.ID)
		}

		start := sub.ServiceStartTime
		end := sub.ServiceEndTime

		if p.VisitsPerServiceYear == 1 {
			return !now.Before(start) && !now.After(end), nil
		}

		// The 3-month mark is calendar months from the window start, unlike
		// the day-based grace period.
		threeMonthMark := start.AddDate(0, 3, 0)
		left := sub.ServicesLeft

		// Multi-visit plans hold one credit per half of the window. Past the
		// 3-month mark an unused first-half credit is forfeited, exactly
		// once; the counter guard makes repeat calls a no-op.
		if now.After(threeMonthMark) && !now.After(end) && left == 2 {
			err := e.Store.StepDownServices(ctx, sub.ID, 2)
			if errors.Is(err, ErrConflict) {
				if attempt < stepDownRetries {
					continue
				}
				return false, fmt.Errorf("eligibility check failed: %w", err)
			}
			if err != nil {
				return false, fmt.Errorf("eligibility check failed: %w", err)
			}
			// Decide against the post-transition state so the call that
			// applies the step-down still reports a usable second-half credit.
			left = 1
		}

		switch {
		case !now.Before(start) && !now.After(threeMonthMark) && left == 2:
			return true, nil
		case now.After(threeMonthMark) && !now.After(end) && left == 1:
			return true, nil
		default:
			return false, nil
		}
	}
}
