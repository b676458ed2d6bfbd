package model

import "gorm.io/gorm"

// Payment is one Stripe invoice attached to a subscription.
type Payment struct {
	gorm.Model
	InvoiceID      string `json:"invoice_id" gorm:"uniqueIndex;not null"`
	InvoiceLink    string `json:"invoice_link"`
	UserID         uint   `json:"user_id" gorm:"index"`
	SubscriptionID uint   `json:"subscription_id" gorm:"index"`

	// İlişkiler
	User         User         `json:"-" gorm:"foreignKey:UserID"`
	Subscription Subscription `json:"-" gorm:"foreignKey:SubscriptionID"`
}
