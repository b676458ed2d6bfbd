package seed

import (
	"log"
	"os"

	"gorm.io/gorm"

	"furnishcare_backend/internal/model"
)

// SeedAdmins makes sure the super-admin emails from the environment also
// exist in the admins table, so the back office works before anyone adds
// operators by hand.
func SeedAdmins(db *gorm.DB) {
	emails := []string{
		os.Getenv("SUPER_ADMIN_EMAIL_1"),
		os.Getenv("SUPER_ADMIN_EMAIL_2"),
	}

	for _, email := range emails {
		if email == "" {
			continue
		}

		admin := model.Admin{Email: email}
		result := db.FirstOrCreate(&admin, model.Admin{Email: email})
		if result.Error != nil {
			log.Printf("Error creating admin %s: %v", email, result.Error)
		}
	}

	log.Println("Admins seeded successfully!")
}
