package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/solara/internal/cache"
	"github.com/example/solara/internal/config"
	"github.com/example/solara/internal/handlers"
	"github.com/example/solara/internal/limiter"
	"github.com/example/solara/internal/middleware"
	"github.com/example/solara/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, store cache.Cache) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	loginLimiter := limiter.NewLoginLimiter(store, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)

	ledger := services.NewLedger()
	availabilityService := services.NewAvailabilityService(db)
	bookingService := services.NewBookingService(db, ledger, availabilityService, telegramService)
	milestoneService := services.NewMilestoneService(db, ledger)
	retentionService := services.NewRetentionService(db)

	authHandler := handlers.NewAuthHandler(db, cfg, loginLimiter)
	hotelHandler := handlers.NewHotelHandler(db)
	searchHandler := handlers.NewSearchHandler(availabilityService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	accountHandler := handlers.NewAccountHandler(db, ledger, bookingService, retentionService)
	milestoneHandler := handlers.NewMilestoneHandler(milestoneService, bookingService)
	paymentHandler := handlers.NewPaymentHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)
	adminHandler := handlers.NewAdminHandler(db, ledger)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public browse routes
	api.Get("/brands", hotelHandler.ListBrands)
	api.Get("/destinations", hotelHandler.ListDestinations)
	api.Get("/hotels", hotelHandler.ListHotels)
	api.Get("/hotels/:id", hotelHandler.GetHotel)
	api.Get("/hotels/:id/reviews", reviewHandler.ListForHotel)
	api.Get("/room-types/:id", hotelHandler.GetRoomType)
	api.Get("/search", searchHandler.Search)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/bookings", bookingHandler.Create)
	protected.Get("/bookings", bookingHandler.ListStays)
	protected.Get("/bookings/:id/bill", bookingHandler.GetBill)
	protected.Post("/bookings/:id/cancel", bookingHandler.Cancel)

	protected.Get("/account", accountHandler.Overview)
	protected.Put("/account/profile", accountHandler.UpdateProfile)
	protected.Get("/account/transactions", accountHandler.ListTransactions)

	protected.Get("/milestones", milestoneHandler.Progress)
	protected.Post("/milestones/claim", milestoneHandler.Claim)
	protected.Get("/milestones/vouchers", milestoneHandler.Vouchers)

	protected.Get("/payment-methods", paymentHandler.List)
	protected.Post("/payment-methods", paymentHandler.Add)
	protected.Put("/payment-methods/:id/default", paymentHandler.SetDefault)
	protected.Delete("/payment-methods/:id", paymentHandler.Delete)

	protected.Post("/reviews", reviewHandler.Create)

	// Staff routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.AdminMiddleware(db))
	admin.Post("/points/grant", adminHandler.GrantPoints)
	admin.Get("/stats", adminHandler.DashboardStats)
}
