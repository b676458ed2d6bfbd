package model

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`

	// Service address and agreement details collected on the intake form
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	SignatureURL string `json:"signature_url"`

	StripeCustomerID string `json:"stripe_customer_id"`

	// İlişkiler
	Subscriptions []Subscription `json:"-"`
	Bookings      []Booking      `json:"-"`
	Payments      []Payment      `json:"-"`
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":           u.ID,
		"email":        u.Email,
		"full_name":    u.GetFullName(),
		"phone_number": u.PhoneNumber,
		"address":      u.Address,
		"city":         u.City,
		"state":        u.State,
		"zip_code":     u.ZipCode,
	}
}

// Admin is a back-office operator. Membership is checked by email; super
// admins come from the environment instead of this table.
type Admin struct {
	gorm.Model
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Name  string `json:"name"`
}
