package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/internal/repository"
	"furnishcare_backend/pkg/booking"
	"furnishcare_backend/pkg/calcom"
	"furnishcare_backend/pkg/database"
	"furnishcare_backend/pkg/email"
	"furnishcare_backend/pkg/utils/jwt"
)

type BookingWebhookInput struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Location  string `json:"location"`
	StartTime string `json:"startTime"`
}

func InitBookingController() {}

// CheckEligibility reports whether the customer can book a service visit
// today. A failed check is a 500, never a silent "not eligible".
func CheckEligibility(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	engine := &booking.Engine{
		Store: repository.NewSubscriptionRepository(database.DB),
	}

	eligible, err := engine.EligibleForService(c.Context(), claims.UserID)
	if err != nil {
		log.Printf("Eligibility check failed for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not determine eligibility",
		})
	}

	return c.JSON(fiber.Map{
		"eligible": eligible,
	})
}

// HandleBookingWebhook consumes Cal.com booking-created callbacks. A booking
// from someone without a usable service credit releases the reserved slot;
// Cal.com only retries non-2xx responses, so rejections still answer 200.
func HandleBookingWebhook(c *fiber.Ctx) error {
	input := new(BookingWebhookInput)
	if err := c.BodyParser(input); err != nil || input.UID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payload",
		})
	}

	var user model.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		cancelSlot(input.UID)
		return c.JSON(fiber.Map{
			"message": "cancelled: no customer for booking email",
		})
	}

	repo := repository.NewSubscriptionRepository(database.DB)

	sub, err := repo.FindActive(c.Context(), user.ID)
	if errors.Is(err, booking.ErrNoActiveSubscription) {
		cancelSlot(input.UID)
		return c.JSON(fiber.Map{
			"message": "cancelled: no active subscription",
		})
	}
	if err != nil {
		log.Printf("Error looking up subscription for booking %s: %v", input.UID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not process booking",
		})
	}

	if err := repo.ConsumeService(c.Context(), sub.ID); err != nil {
		if errors.Is(err, booking.ErrNoServicesLeft) {
			cancelSlot(input.UID)
			return c.JSON(fiber.Map{
				"message": "cancelled: no services left",
			})
		}
		log.Printf("Error consuming service for booking %s: %v", input.UID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not process booking",
		})
	}

	startTime, parseErr := time.Parse(time.RFC3339, input.StartTime)
	if parseErr != nil {
		startTime = time.Time{}
	}

	b := model.Booking{
		CalcomUID:      input.UID,
		UserID:         user.ID,
		SubscriptionID: sub.ID,
		StartTime:      startTime,
		Location:       input.Location,
		Payload:        datatypes.JSON(c.Body()),
	}
	if err := database.DB.Create(&b).Error; err != nil {
		log.Printf("Error recording booking %s: %v", input.UID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record booking",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendBookingAcknowledgementEmail(
			user.Email,
			user.GetFullName(),
			input.UID,
			input.Location,
			startTime,
		)
		if err != nil {
			log.Printf("Could not send booking acknowledgement: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "okay",
	})
}

func cancelSlot(uid string) {
	if calcom.GlobalClient != nil {
		calcom.GlobalClient.CancelBooking(uid)
	}
}
