package middleware

import (
	"github.com/gofiber/fiber/v2"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/pkg/database"
	"furnishcare_backend/pkg/utils/jwt"
)

// RequireActiveSubscription guards routes that only make sense for paying
// customers, like the service-agreement upload.
func RequireActiveSubscription() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		var sub model.Subscription
		if err := database.DB.Where("user_id = ? AND status = ?", claims.UserID, model.SubscriptionStatusActive).
			First(&sub).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "No active subscription found",
			})
		}

		c.Locals("subscription", &sub)
		return c.Next()
	}
}
