package booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/pkg/booking"
)

// fakeStore mimics the conditional-update semantics of the real repository.
type fakeStore struct {
	sub       *model.Subscription
	findErr   error
	stepErr   error
	stepCalls int

	// conflictOnce fails the first conditional update and applies a
	// concurrent writer's decrement instead, like a lost race would.
	conflictOnce bool
}

func (f *fakeStore) FindActive(_ context.Context, userID uint) (*model.Subscription, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.sub == nil || f.sub.UserID != userID {
		return nil, booking.ErrNoActiveSubscription
	}
	copied := *f.sub
	return &copied, nil
}

func (f *fakeStore) StepDownServices(_ context.Context, subscriptionID uint, from int) error {
	f.stepCalls++
	if f.conflictOnce {
		f.conflictOnce = false
		f.sub.ServicesLeft = from - 1
		return booking.ErrConflict
	}
	if f.stepErr != nil {
		return f.stepErr
	}
	if f.sub == nil || f.sub.ID != subscriptionID || f.sub.ServicesLeft != from {
		return booking.ErrConflict
	}
	f.sub.ServicesLeft = from - 1
	return nil
}

func activeSub(planID string, buyDate time.Time, servicesLeft int) *model.Subscription {
	start, end := booking.ComputeServiceWindow(buyDate)
	sub := &model.Subscription{
		UserID:           1,
		PlanID:           planID,
		Status:           model.SubscriptionStatusActive,
		BuyDate:          buyDate,
		ServiceStartTime: start,
		ServiceEndTime:   end,
		ServicesLeft:     servicesLeft,
	}
	sub.ID = 42
	return sub
}

func engineAt(store booking.SubscriptionStore, now time.Time) *booking.Engine {
	return &booking.Engine{
		Store: store,
		Now:   func() time.Time { return now },
	}
}

func TestEligibleForService_NoSubscription(t *testing.T) {
	store := &fakeStore{}
	engine := engineAt(store, date(2024, time.June, 1))

	eligible, err := engine.EligibleForService(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestEligibleForService_StoreErrorPropagates(t *testing.T) {
	store := &fakeStore{findErr: errors.New("connection refused")}
	engine := engineAt(store, date(2024, time.June, 1))

	_, err := engine.EligibleForService(context.Background(), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "eligibility check failed")
}

func TestEligibleForService_UnknownPlan(t *testing.T) {
	store := &fakeStore{sub: activeSub("platinum", date(2024, time.January, 1), 2)}
	engine := engineAt(store, date(2024, time.June, 1))

	_, err := engine.EligibleForService(context.Background(), 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, booking.ErrUnknownPlan)
}

func TestEligibleForService_SingleVisitPlan(t *testing.T) {
	// basic plan bought 2024-01-01: window [2024-03-31, 2025-01-01]
	buyDate := date(2024, time.January, 1)

	cases := []struct {
		name     string
		today    time.Time
		eligible bool
	}{
		{"day before window opens", date(2024, time.March, 30), false},
		{"window start", date(2024, time.March, 31), true},
		{"mid window", date(2024, time.August, 15), true},
		{"window end", date(2025, time.January, 1), true},
		{"day after window closes", date(2025, time.January, 2), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{sub: activeSub("basic", buyDate, 1)}
			engine := engineAt(store, tc.today)

			eligible, err := engine.EligibleForService(context.Background(), 1)

			require.NoError(t, err)
			assert.Equal(t, tc.eligible, eligible)
			assert.Zero(t, store.stepCalls, "single-visit plans never step down")
		})
	}
}

func TestEligibleForService_TwoVisitPlan(t *testing.T) {
	// standard plan bought 2024-01-01: window [2024-03-31, 2025-01-01],
	// 3-month mark three calendar months after the window start.
	buyDate := date(2024, time.January, 1)

	t.Run("eligible at window start with both credits", func(t *testing.T) {
		store := &fakeStore{sub: activeSub("standard", buyDate, 2)}
		engine := engineAt(store, date(2024, time.March, 31))

		eligible, err := engine.EligibleForService(context.Background(), 1)

		require.NoError(t, err)
		assert.True(t, eligible)
		assert.Equal(t, 2, store.sub.ServicesLeft)
	})

	t.Run("not eligible before window start", func(t *testing.T) {
		store := &fakeStore{sub: activeSub("standard", buyDate, 2)}
		engine := engineAt(store, date(2024, time.February, 1))

		eligible, err := engine.EligibleForService(context.Background(), 1)

		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("first call past 3-month mark steps down and stays eligible", func(t *testing.T) {
		store := &fakeStore{sub: activeSub("standard", buyDate, 2)}
		engine := engineAt(store, date(2024, time.July, 2))

		eligible, err := engine.EligibleForService(context.Background(), 1)

		require.NoError(t, err)
		assert.True(t, eligible)
		assert.Equal(t, 1, store.sub.ServicesLeft)
		assert.Equal(t, 1, store.stepCalls)
	})

	t.Run("step down happens exactly once", func(t *testing.T) {
		store := &fakeStore{sub: activeSub("standard", buyDate, 2)}
		engine := engineAt(store, date(2024, time.July, 2))

		for i := 0; i < 3; i++ {
			eligible, err := engine.EligibleForService(context.Background(), 1)
			require.NoError(t, err)
			assert.True(t, eligible)
		}

		assert.Equal(t, 1, store.sub.ServicesLeft)
		assert.Equal(t, 1, store.stepCalls)
	})

	t.Run("second half with one credit left", func(t *testing.T) {
		store := &fakeStore{sub: activeSub("standard", buyDate, 1)}
		engine := engineAt(store, date(2024, time.October, 10))

		eligible, err := engine.EligibleForService(context.Background(), 1)

		require.NoError(t, err)
		assert.True(t, eligible)
	})

	t.Run("not eligible with zero credits", func(t *testing.T) {
		store := &fakeStore{sub: activeSub("standard", buyDate, 0)}
		engine := engineAt(store, date(2024, time.October, 10))

		eligible, err := engine.EligibleForService(context.Background(), 1)

		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("not eligible after window end", func(t *testing.T) {
		store := &fakeStore{sub: activeSub("standard", buyDate, 1)}
		engine := engineAt(store, date(2025, time.January, 2))

		eligible, err := engine.EligibleForService(context.Background(), 1)

		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("lost step-down race re-reads and settles", func(t *testing.T) {
		// A booking webhook decremented the counter between this check's
		// read and its conditional update; the retry sees the fresh value.
		store := &fakeStore{sub: activeSub("standard", buyDate, 2), conflictOnce: true}
		engine := engineAt(store, date(2024, time.July, 2))

		eligible, err := engine.EligibleForService(context.Background(), 1)

		require.NoError(t, err)
		assert.True(t, eligible)
		assert.Equal(t, 1, store.sub.ServicesLeft)
		assert.Equal(t, 1, store.stepCalls, "retry must not attempt a second step-down")
	})

	t.Run("persistent conflict surfaces as error", func(t *testing.T) {
		store := &fakeStore{sub: activeSub("standard", buyDate, 2)}
		store.stepErr = booking.ErrConflict
		engine := engineAt(store, date(2024, time.July, 2))

		_, err := engine.EligibleForService(context.Background(), 1)

		require.Error(t, err)
		assert.ErrorIs(t, err, booking.ErrConflict)
	})
}

func TestEligibleForService_EndToEndScenario(t *testing.T) {
	// Customer buys standard (2 visits, $29.99) on 2024-01-01.
	buyDate := date(2024, time.January, 1)
	store := &fakeStore{sub: activeSub("standard", buyDate, 2)}

	require.Equal(t, date(2024, time.March, 31), store.sub.ServiceStartTime)
	require.Equal(t, date(2025, time.January, 1), store.sub.ServiceEndTime)

	// Window opens: eligible on both credits.
	eligible, err := engineAt(store, date(2024, time.March, 31)).EligibleForService(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, eligible)
	assert.Equal(t, 2, store.sub.ServicesLeft)

	// Past the 3-month mark the unused first-half credit is forfeited, and
	// the same call is still eligible on the second-half credit.
	eligible, err = engineAt(store, date(2024, time.July, 2)).EligibleForService(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, eligible)
	assert.Equal(t, 1, store.sub.ServicesLeft)

	// A confirmed booking consumes the last credit.
	store.sub.ServicesLeft = 0

	eligible, err = engineAt(store, date(2024, time.November, 1)).EligibleForService(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, eligible)
}
