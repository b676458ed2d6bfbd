package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive  = "active"
	SubscriptionStatusExpired = "expired"
)

type Subscription struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"not null;index"`
	PlanID string `json:"plan_id" gorm:"not null"`

	// Only "active" and "expired" participate in eligibility; the transition
	// is one-way.
	Status string `json:"status" gorm:"not null;default:'active'"`

	StripeSubscriptionID string `json:"stripe_subscription_id" gorm:"uniqueIndex"`
	StripeCustomerID     string `json:"stripe_customer_id"`

	BuyDate          time.Time `json:"buy_date" gorm:"not null"`
	ServiceStartTime time.Time `json:"service_start_time" gorm:"not null"`
	ServiceEndTime   time.Time `json:"service_end_time" gorm:"not null"`

	// ServicesLeft only ever decreases while the subscription is active.
	ServicesLeft int `json:"services_left" gorm:"not null"`

	// İlişkiler
	User     User      `json:"-" gorm:"foreignKey:UserID"`
	Payments []Payment `json:"payments,omitempty"`
}
