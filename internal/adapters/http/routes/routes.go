package routes

import (
	"spsc-alumni/internal/adapters/http/handlers"
	"spsc-alumni/internal/adapters/http/middleware"
	"spsc-alumni/internal/adapters/persistence/repositories"
	"spsc-alumni/internal/config"
	"spsc-alumni/internal/core/services"
	"spsc-alumni/internal/pkg/upload"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers, then configures all routes.
// It returns the housekeeping service so main can stop it on shutdown.
func Setup(app *fiber.App, db *gorm.DB, mdb *mongo.Database, cfg *config.Config) *services.HousekeepingService {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	alumniRepo := repositories.NewAlumniRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	notificationRepo := repositories.NewNotificationRepository(mdb)

	// File uploads
	uploader := upload.NewUploader(upload.Config{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
		Folder:    cfg.Cloudinary.Folder,
	})

	// Services
	notifyService := services.NewNotificationService(notificationRepo)
	emailService := services.NewEmailService(cfg.SMTP)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, refreshTokenRepo)
	alumniService := services.NewAlumniService(alumniRepo, notifyService, emailService)
	shippingService := services.NewShippingService(alumniRepo, notifyService, emailService)
	paymentService := services.NewPaymentService(paymentRepo, alumniRepo, alumniService)
	labelService := services.NewLabelService(cfg.Company)
	dashboardService := services.NewDashboardService(db)
	housekeepingService := services.NewHousekeepingService(alumniRepo, refreshTokenRepo, notifyService)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	alumniHandler := handlers.NewAlumniHandler(alumniService, uploader)
	shippingHandler := handlers.NewShippingHandler(shippingService)
	labelHandler := handlers.NewLabelHandler(labelService, alumniService, shippingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	notificationHandler := handlers.NewNotificationHandler(notifyService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	auth := middleware.AuthMiddleware(cfg, authService)

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	authRoutes.Get("/bootstrap", authHandler.BootstrapStatus)
	authRoutes.Post("/bootstrap", middleware.AuthRateLimiter(), authHandler.Bootstrap)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", auth, authHandler.Me)
	authRoutes.Post("/logout-all", auth, authHandler.LogoutAll)

	// Public routes: registration, status check, shipment tracking
	alumniRoutes := apiV1.Group("/alumni")
	alumniRoutes.Post("/register", middleware.RegisterRateLimiter(), alumniHandler.Register)
	alumniRoutes.Post("/check-status", alumniHandler.CheckStatus)
	alumniRoutes.Post("/:id/payment-proof", alumniHandler.UploadPaymentProof)

	shippingPublic := apiV1.Group("/shipping")
	shippingPublic.Get("/track/:trackingNumber", shippingHandler.Track)

	// Alumni management (staff or admin)
	alumniRoutes.Get("/", auth, middleware.StaffOrAdmin(), alumniHandler.List)
	alumniRoutes.Get("/:id", auth, middleware.StaffOrAdmin(), alumniHandler.Get)
	alumniRoutes.Patch("/:id/status", auth, middleware.StaffOrAdmin(), alumniHandler.UpdateStatus)
	alumniRoutes.Patch("/:id/position", auth, middleware.AdminOnly(), alumniHandler.UpdatePosition)
	alumniRoutes.Delete("/:id", auth, middleware.AdminOnly(), alumniHandler.Delete)

	// Shipping pipeline (staff or admin)
	shippingRoutes := apiV1.Group("/shipping")
	shippingRoutes.Use(auth, middleware.StaffOrAdmin())
	shippingRoutes.Get("/", shippingHandler.ListShippable)
	shippingRoutes.Get("/statistics", shippingHandler.Statistics)
	shippingRoutes.Post("/bulk", shippingHandler.BulkUpdate)
	shippingRoutes.Get("/labels/sheet", labelHandler.FourUp)
	shippingRoutes.Get("/labels/bulk", labelHandler.Bulk)
	shippingRoutes.Get("/labels/summary", labelHandler.Summary)
	shippingRoutes.Get("/labels/:id", labelHandler.Single)
	shippingRoutes.Patch("/:id", shippingHandler.UpdateShipping)

	// Payments (staff or admin)
	paymentRoutes := apiV1.Group("/payments")
	paymentRoutes.Use(auth, middleware.StaffOrAdmin())
	paymentRoutes.Post("/", paymentHandler.Submit)
	paymentRoutes.Patch("/:id/verify", paymentHandler.Verify)
	paymentRoutes.Get("/reference/:reference", paymentHandler.GetByReference)
	paymentRoutes.Get("/alumni/:id", paymentHandler.ListByAlumni)

	// Notification inbox (authenticated operators)
	notificationRoutes := apiV1.Group("/notifications")
	notificationRoutes.Use(auth)
	notificationRoutes.Get("/", notificationHandler.List)
	notificationRoutes.Get("/unread-count", notificationHandler.UnreadCount)
	notificationRoutes.Patch("/read-all", notificationHandler.MarkAllRead)
	notificationRoutes.Patch("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.Delete("/:id", middleware.AdminOnly(), notificationHandler.Delete)

	// Dashboard (staff or admin)
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(auth, middleware.StaffOrAdmin())
	dashboardRoutes.Get("/", dashboardHandler.GetDashboard)

	// User management (admin only, except own password)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(auth)
	userRoutes.Patch("/password", userHandler.ChangePassword)
	userRoutes.Use(middleware.AdminOnly())
	userRoutes.Post("/", userHandler.Create)
	userRoutes.Get("/", userHandler.List)
	userRoutes.Get("/:id", userHandler.Get)
	userRoutes.Put("/:id", userHandler.Update)
	userRoutes.Patch("/:id/role", userHandler.ChangeRole)
	userRoutes.Patch("/:id/active", userHandler.SetActive)
	userRoutes.Delete("/:id", userHandler.Delete)

	return housekeepingService
}
