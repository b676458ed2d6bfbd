package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"furnishcare_backend/internal/controller"
	"furnishcare_backend/internal/middleware"
	"furnishcare_backend/internal/model"
	"furnishcare_backend/pkg/calcom"
	"furnishcare_backend/pkg/config"
	"furnishcare_backend/pkg/cron"
	"furnishcare_backend/pkg/database"
	"furnishcare_backend/pkg/email"
	"furnishcare_backend/pkg/seed"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Public plan catalog and marketing content
	api.Get("/plans", controller.ListPlans)
	content := api.Group("/content")
	content.Get("/posts", controller.ListPosts)
	content.Get("/posts/:slug", controller.GetPostBySlug)

	// Webhooks
	webhooks := api.Group("/webhook")
	webhooks.Post("/stripe", controller.HandleStripeWebhook)
	webhooks.Post("/calcom/booking", controller.HandleBookingWebhook)

	// Protected customer routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)
	protected.Put("/me", controller.UpdateProfile)
	protected.Get("/dashboard", controller.GetDashboard)
	protected.Get("/bookings/eligibility", controller.CheckEligibility)
	protected.Post("/agreement/signature", middleware.RequireActiveSubscription(), controller.UploadSignature)

	subscriptions := protected.Group("/subscriptions")
	subscriptions.Get("/my", controller.GetMySubscription)
	subscriptions.Post("/checkout-session", controller.CreateCheckoutSession)
	subscriptions.Get("/cancellation-fee", controller.GetCancellationFee)
	subscriptions.Post("/cancel", controller.CancelSubscription)

	// Admin back office
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	admin.Get("/users", controller.AdminListUsers)
	admin.Get("/subscriptions", controller.AdminListSubscriptions)
	admin.Get("/subscriptions/:id", controller.AdminGetSubscription)
	admin.Post("/subscriptions/:id/cancel", controller.AdminCancelSubscription)
	admin.Get("/bookings", controller.AdminListBookings)
	admin.Get("/booking-link", controller.AdminGetBookingLink)
	admin.Get("/daily-capacity", controller.AdminGetDailyCapacity)
	admin.Put("/daily-capacity", controller.AdminSetDailyCapacity)
	admin.Post("/notifications", controller.AdminSendNotification)
	admin.Post("/posts", controller.AdminCreatePost)
}

func main() {
	cfg := config.Load()

	if err := email.InitEmailService(cfg.Email.ResendAPIKey, cfg.Email.FromAddress); err != nil {
		log.Printf("Email service not available: %v", err)
	}

	if err := calcom.InitClient(cfg.Calcom.APIKey, cfg.Calcom.EventTypeID); err != nil {
		log.Printf("Cal.com client not available: %v", err)
	}

	controller.InitAuthController()
	controller.InitSubscriptionController()
	controller.InitBookingController()
	controller.InitAdminController()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Admin{},
		&model.Subscription{},
		&model.Booking{},
		&model.Payment{},
		&model.Post{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	if err := database.EnsureConstraints(); err != nil {
		log.Printf("Constraint warning: %v", err)
	}

	seed.SeedAdmins(database.DB)

	cron.InitSubscriptionExpiryCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
