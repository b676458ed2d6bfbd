package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnishcare_backend/pkg/plan"
)

func TestGet(t *testing.T) {
	t.Run("known plans", func(t *testing.T) {
		cases := []struct {
			id     plan.PlanID
			cents  int64
			visits int
		}{
			{plan.Basic, 1999, 1},
			{plan.Standard, 2999, 2},
			{plan.Premium, 4999, 2},
			{plan.Enterprise, 14999, 2},
		}

		for _, tc := range cases {
			p, ok := plan.Get(tc.id)
			require.True(t, ok, "plan %s must exist", tc.id)
			assert.Equal(t, tc.cents, p.PriceCents)
			assert.Equal(t, tc.visits, p.VisitsPerServiceYear)
		}
	})

	t.Run("unknown plan", func(t *testing.T) {
		_, ok := plan.Get("platinum")
		assert.False(t, ok)
	})
}

func TestByStripePriceID(t *testing.T) {
	standard := plan.Plans[plan.Standard]

	p, ok := plan.ByStripePriceID(standard.StripePriceID)
	require.True(t, ok)
	assert.Equal(t, plan.Standard, p.ID)

	_, ok = plan.ByStripePriceID("price_nonexistent")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	plans := plan.List()

	require.Len(t, plans, 4)
	assert.Equal(t, plan.Basic, plans[0].ID)
	assert.Equal(t, plan.Enterprise, plans[3].ID)

	// Catalog is ordered by price.
	for i := 1; i < len(plans); i++ {
		assert.Greater(t, plans[i].PriceCents, plans[i-1].PriceCents)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$19.99", plan.FormatAmount(1999))
	assert.Equal(t, "$0.00", plan.FormatAmount(0))
	assert.Equal(t, "$149.99", plan.FormatAmount(14999))
}
