package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/pkg/booking"
)

// SubscriptionRepository implements booking.SubscriptionStore on GORM. All
// counter updates are conditional single-statement writes; application code
// never does read-modify-write on services_left.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) FindActive(ctx context.Context, userID uint) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.SubscriptionStatusActive).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, booking.ErrNoActiveSubscription
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) FindByStripeID(ctx context.Context, stripeSubID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("stripe_subscription_id = ?", stripeSubID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, booking.ErrNoActiveSubscription
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// StepDownServices applies the 3-month forfeit: services_left from -> from-1,
// guarded on the expected value so a racing booking cannot be overwritten.
func (r *SubscriptionRepository) StepDownServices(ctx context.Context, subscriptionID uint, from int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("id = ? AND status = ? AND services_left = ?",
			subscriptionID, model.SubscriptionStatusActive, from).
		Update("services_left", from-1)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return booking.ErrConflict
	}
	return nil
}

// ConsumeService spends one visit for a confirmed booking. The decrement is
// atomic in SQL and refuses to go below zero.
func (r *SubscriptionRepository) ConsumeService(ctx context.Context, subscriptionID uint) error {
	res := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("id = ? AND status = ? AND services_left > 0",
			subscriptionID, model.SubscriptionStatusActive).
		Update("services_left", gorm.Expr("services_left - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return booking.ErrNoServicesLeft
	}
	return nil
}

// Create persists a subscription from a completed checkout. The partial
// unique index on (user_id, status=active) rejects a second active
// subscription; that surfaces as ErrConflict.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	err := r.db.WithContext(ctx).Create(sub).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: user %d already has an active subscription", booking.ErrConflict, sub.UserID)
	}
	return err
}

// MarkExpired is the terminal transition, driven by the Stripe
// customer.subscription.deleted event. The service window is cut to now.
func (r *SubscriptionRepository) MarkExpired(ctx context.Context, stripeSubID string, now time.Time) (*model.Subscription, error) {
	sub, err := r.FindByStripeID(ctx, stripeSubID)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(sub).
		Updates(map[string]interface{}{
			"status":           model.SubscriptionStatusExpired,
			"service_end_time": now,
		}).Error
	if err != nil {
		return nil, err
	}
	return sub, nil
}
