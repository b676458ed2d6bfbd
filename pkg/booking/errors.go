package booking

import "errors"

var (
	// ErrNoActiveSubscription is returned by store lookups when the customer
	// has no subscription with status "active".
	ErrNoActiveSubscription = errors.New("no active subscription found")

	// ErrUnknownPlan means a subscription references a plan id that is not in
	// the catalog. This is a data integrity problem, not a "not eligible".
	ErrUnknownPlan = errors.New("unknown subscription plan")

	// ErrConflict means a conditional update lost its race against a
	// concurrent writer. Callers may retry.
	ErrConflict = errors.New("subscription was updated concurrently")

	// ErrNoServicesLeft means the subscription has no service visits left to
	// consume.
	ErrNoServicesLeft = errors.New("no services left on subscription")
)
