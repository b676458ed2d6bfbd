package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/pkg/database"
	"furnishcare_backend/pkg/utils/jwt"
)

// AdminMiddleware allows back-office operators through: either one of the
// super-admin emails from the environment, or an email present in the admins
// table. Runs after AuthMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(*jwt.Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		email := strings.ToLower(claims.Email)
		if isSuperAdmin(email) {
			return c.Next()
		}

		var admin model.Admin
		if err := database.DB.Where("LOWER(email) = ?", email).First(&admin).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		return c.Next()
	}
}

func isSuperAdmin(email string) bool {
	if email == "" {
		return false
	}
	super1 := strings.ToLower(os.Getenv("SUPER_ADMIN_EMAIL_1"))
	super2 := strings.ToLower(os.Getenv("SUPER_ADMIN_EMAIL_2"))
	return (super1 != "" && email == super1) || (super2 != "" && email == super2)
}
