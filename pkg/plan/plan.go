package plan

import (
	"fmt"
	"os"
)

type PlanID string

const (
	Basic      PlanID = "basic"
	Standard   PlanID = "standard"
	Premium    PlanID = "premium"
	Enterprise PlanID = "enterprise"
)

type Plan struct {
	ID                   PlanID   `json:"id"`
	Name                 string   `json:"name"`
	PriceCents           int64    `json:"price_cents"`
	VisitsPerServiceYear int      `json:"visits_per_service_year"`
	StripePriceID        string   `json:"stripe_price_id"`
	Features             []string `json:"features"`
}

var Plans = map[PlanID]Plan{
	Basic: {
		ID:                   Basic,
		Name:                 "Basic",
		PriceCents:           1999,
		VisitsPerServiceYear: 1,
		StripePriceID:        getEnv("STRIPE_BASIC_PRICE_ID", "price_basic_annual"),
		Features: []string{
			"Annual furniture touch-up service",
			"Covers up to 3 pieces of furniture",
			"$100 per additional piece",
			"Includes damage assessment",
			"Ideal for light home usage with minimal wear",
		},
	},
	Standard: {
		ID:                   Standard,
		Name:                 "Standard",
		PriceCents:           2999,
		VisitsPerServiceYear: 2,
		StripePriceID:        getEnv("STRIPE_STANDARD_PRICE_ID", "price_standard_biannual"),
		Features: []string{
			"Bi-annual furniture touch-up service",
			"Covers up to 5 pieces of furniture",
			"$100 per additional piece",
			"Ideal for moderate use households",
		},
	},
	Premium: {
		ID:                   Premium,
		Name:                 "Premium",
		PriceCents:           4999,
		VisitsPerServiceYear: 2,
		StripePriceID:        getEnv("STRIPE_PREMIUM_PRICE_ID", "price_premium_biannual"),
		Features: []string{
			"Bi-annual furniture touch-up service",
			"Covers up to 8 pieces of furniture",
			"$100 per additional piece",
			"Ideal for high-use furniture and busy households",
		},
	},
	Enterprise: {
		ID:                   Enterprise,
		Name:                 "Enterprise",
		PriceCents:           14999,
		VisitsPerServiceYear: 2,
		StripePriceID:        getEnv("STRIPE_ENTERPRISE_PRICE_ID", "price_enterprise_biannual"),
		Features: []string{
			"Bi-annual maintenance included",
			"Covers up to 20 pieces of furniture",
			"$100 per additional piece",
			"Perfect for restaurants, hotels, offices and commercial spaces",
		},
	},
}

// Get returns the plan for the given id. Unknown ids report ok=false;
// the catalog is closed, there is no default plan.
func Get(id PlanID) (Plan, bool) {
	p, ok := Plans[id]
	return p, ok
}

// ByStripePriceID resolves a Stripe price back to the catalog plan.
func ByStripePriceID(priceID string) (Plan, bool) {
	for _, p := range Plans {
		if p.StripePriceID == priceID {
			return p, true
		}
	}
	return Plan{}, false
}

// List returns the catalog in a stable pricing order for the plans endpoint.
func List() []Plan {
	order := []PlanID{Basic, Standard, Premium, Enterprise}
	plans := make([]Plan, 0, len(order))
	for _, id := range order {
		plans = append(plans, Plans[id])
	}
	return plans
}

// FormatAmount renders minor currency units as a dollar string.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
