package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/pkg/database"
	"furnishcare_backend/pkg/utils/image"
	"furnishcare_backend/pkg/utils/jwt"
	"furnishcare_backend/pkg/utils/storage"
)

type ProfileInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
}

// UpdateProfile saves the service address and contact details from the
// customer intake form.
func UpdateProfile(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(ProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	updates := map[string]interface{}{
		"first_name":   input.FirstName,
		"last_name":    input.LastName,
		"phone_number": input.PhoneNumber,
		"address":      input.Address,
		"city":         input.City,
		"state":        input.State,
		"zip_code":     input.ZipCode,
	}

	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update profile",
		})
	}

	return c.JSON(user.GetPublicProfile())
}

// UploadSignature stores the customer's signed service agreement. The file is
// re-encoded before upload so only real images reach storage.
func UploadSignature(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	file, err := c.FormFile("signature")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Signature file is required",
		})
	}

	if !image.AllowedImageTypes[file.Header.Get("Content-Type")] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only JPEG, PNG and WebP images are allowed",
		})
	}

	buf, contentType, err := image.ProcessSignature(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not process signature image",
		})
	}

	result, err := storage.UploadSignature(storage.UploadSignatureConfig{
		Data:        buf,
		ContentType: contentType,
		UserEmail:   user.Email,
		Filename:    file.Filename,
	})
	if err != nil {
		log.Printf("Could not upload signature for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload signature",
		})
	}

	if user.SignatureURL != "" {
		if err := storage.DeleteSignature(user.SignatureURL); err != nil {
			log.Printf("Could not delete old signature for user %d: %v", user.ID, err)
		}
	}

	if err := database.DB.Model(&user).Update("signature_url", result.URL).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save signature",
		})
	}

	return c.JSON(fiber.Map{
		"url": result.URL,
	})
}
