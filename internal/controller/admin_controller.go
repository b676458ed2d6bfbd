package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/pkg/booking"
	"furnishcare_backend/pkg/calcom"
	"furnishcare_backend/pkg/database"
	"furnishcare_backend/pkg/email"
	"furnishcare_backend/pkg/plan"
)

type AdminCancelInput struct {
	Mode string `json:"mode"` // "with_fee" | "no_fee"
}

type NotificationInput struct {
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

type SetCapacityInput struct {
	Capacity int `json:"capacity" validate:"required,min=1"`
}

func InitAdminController() {}

func AdminListUsers(c *fiber.Ctx) error {
	var users []model.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch users",
		})
	}

	return c.JSON(fiber.Map{"data": users})
}

func AdminListSubscriptions(c *fiber.Ctx) error {
	var subs []model.Subscription
	if err := database.DB.Order("created_at DESC").
		Preload("User").
		Preload("Payments").
		Find(&subs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscriptions",
		})
	}

	return c.JSON(fiber.Map{"data": subs})
}

func AdminGetSubscription(c *fiber.Ctx) error {
	var sub model.Subscription
	if err := database.DB.Preload("User").Preload("Payments").
		First(&sub, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	}

	return c.JSON(fiber.Map{"data": sub})
}

// AdminCancelSubscription forces a cancellation from the back office, with or
// without the early-cancellation fee. Like the customer path, the local
// status flips when Stripe's deletion webhook arrives.
func AdminCancelSubscription(c *fiber.Ctx) error {
	input := new(AdminCancelInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if input.Mode != "with_fee" && input.Mode != "no_fee" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Mode must be with_fee or no_fee",
		})
	}

	var sub model.Subscription
	if err := database.DB.Preload("User").First(&sub, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	}

	fee := booking.CancellationFee{Reason: "Waived by admin"}
	if input.Mode == "with_fee" {
		fee = booking.CalculateCancellationFee(plan.PlanID(sub.PlanID), sub.ServiceEndTime, time.Now())
	}

	if err := cancelOnStripe(&sub, fee); err != nil {
		log.Printf("Admin cancel failed for subscription %d: %v", sub.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel Stripe subscription",
		})
	}

	return c.JSON(fiber.Map{
		"message":       "Subscription cancelled",
		"fee_cents":     fee.FeeAmountCents,
		"fee_formatted": fee.FeeAmountFormatted(),
		"reason":        fee.Reason,
	})
}

func AdminListBookings(c *fiber.Ctx) error {
	var bookings []model.Booking
	if err := database.DB.Order("created_at DESC").
		Preload("User").
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch bookings",
		})
	}

	return c.JSON(fiber.Map{"data": bookings})
}

// AdminGetBookingLink mints a single-use direct booking link on Cal.com.
func AdminGetBookingLink(c *fiber.Ctx) error {
	if calcom.GlobalClient == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Scheduling service not configured",
		})
	}

	url, err := calcom.GlobalClient.GenerateBookingLink()
	if err != nil {
		log.Printf("Could not generate booking link: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate booking link",
		})
	}

	return c.JSON(fiber.Map{"url": url})
}

func AdminGetDailyCapacity(c *fiber.Ctx) error {
	if calcom.GlobalClient == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Scheduling service not configured",
		})
	}

	capacity, err := calcom.GlobalClient.GetDailyCapacity()
	if err != nil {
		log.Printf("Could not fetch daily capacity: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch daily capacity",
		})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"current": capacity},
	})
}

func AdminSetDailyCapacity(c *fiber.Ctx) error {
	input := new(SetCapacityInput)
	if err := c.BodyParser(input); err != nil || input.Capacity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Capacity must be a positive number",
		})
	}

	if calcom.GlobalClient == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Scheduling service not configured",
		})
	}

	if err := calcom.GlobalClient.UpdateDailyCapacity(input.Capacity); err != nil {
		log.Printf("Could not update daily capacity: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update daily capacity",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Daily capacity updated",
		"data":    fiber.Map{"current": input.Capacity},
	})
}

// AdminSendNotification sends a one-off custom email to a customer.
func AdminSendNotification(c *fiber.Ctx) error {
	input := new(NotificationInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if input.Email == "" || input.Subject == "" || input.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email, subject and body are required",
		})
	}

	if email.GlobalEmailService == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Email service not configured",
		})
	}

	if err := email.GlobalEmailService.SendCustomEmail(input.Email, input.Subject, input.Body); err != nil {
		log.Printf("Could not send notification to %s: %v", input.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not send notification",
		})
	}

	return c.JSON(fiber.Map{"message": "Notification sent"})
}
