package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Stripe   StripeConfig
	Calcom   CalcomConfig
	Email    EmailConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type CalcomConfig struct {
	APIKey      string
	EventTypeID string
}

type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
}

type AdminConfig struct {
	SuperAdminEmail1 string
	SuperAdminEmail2 string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Calcom: CalcomConfig{
			APIKey:      getEnv("CALCOM_API_KEY", ""),
			EventTypeID: getEnv("CALCOM_EVENT_TYPE_ID", ""),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromAddress:  getEnv("NOTIFICATIONS_FROM_EMAIL", "info@furnishcare.com"),
		},
		Admin: AdminConfig{
			SuperAdminEmail1: getEnv("SUPER_ADMIN_EMAIL_1", ""),
			SuperAdminEmail2: getEnv("SUPER_ADMIN_EMAIL_2", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
