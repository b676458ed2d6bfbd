package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking records a confirmed Cal.com service visit. Slots, availability and
// rescheduling live on the Cal.com side; CalcomUID is the reference there.
type Booking struct {
	gorm.Model
	CalcomUID      string `json:"calcom_uid" gorm:"uniqueIndex;not null"`
	UserID         uint   `json:"user_id" gorm:"not null;index"`
	SubscriptionID uint   `json:"subscription_id" gorm:"not null"`

	StartTime time.Time `json:"start_time"`
	Location  string    `json:"location"`

	// Raw webhook payload, kept for the admin back-office
	Payload datatypes.JSON `json:"payload,omitempty"`

	// İlişkiler
	User         User         `json:"-" gorm:"foreignKey:UserID"`
	Subscription Subscription `json:"-" gorm:"foreignKey:SubscriptionID"`
}
