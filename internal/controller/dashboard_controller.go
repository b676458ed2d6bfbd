package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/internal/repository"
	"furnishcare_backend/pkg/booking"
	"furnishcare_backend/pkg/database"
	"furnishcare_backend/pkg/utils/jwt"
)

// GetDashboard bundles everything the customer dashboard shows: profile,
// subscription history with payments, bookings, and whether a service visit
// can be booked right now.
func GetDashboard(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var subs []model.Subscription
	database.DB.Where("user_id = ?", user.ID).
		Order("buy_date DESC").
		Preload("Payments").
		Find(&subs)

	var payments []model.Payment
	database.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&payments)

	var bookings []model.Booking
	database.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&bookings)

	engine := &booking.Engine{
		Store: repository.NewSubscriptionRepository(database.DB),
	}
	canBook, err := engine.EligibleForService(c.Context(), user.ID)
	if err != nil {
		log.Printf("Eligibility check failed for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not determine service eligibility",
		})
	}

	return c.JSON(fiber.Map{
		"user":             user.GetPublicProfile(),
		"subscriptions":    subs,
		"payments":         payments,
		"bookings":         bookings,
		"can_book_service": canBook,
	})
}
