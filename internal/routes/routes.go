// Package routes defines the API routing configuration.
// It wires repositories, services and handlers together and applies
// authentication, permission and rate-limit middleware per route group.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"corepay/internal/handlers"
	"corepay/internal/middleware"
	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/services/alert"
	"corepay/internal/services/analytics"
	"corepay/internal/services/auth"
	"corepay/internal/services/compliance"
	"corepay/internal/services/kyc"
	"corepay/internal/services/merchantreview"
	"corepay/internal/services/risk"
	"corepay/internal/services/settings"
	"corepay/internal/services/ticket"
	"corepay/internal/services/webhook"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	adminRepo := repositories.NewAdminUserRepository(db)
	merchantRepo := repositories.NewMerchantRepository(db)
	kycRepo := repositories.NewKYCRepository(db)
	ticketRepo := repositories.NewTicketRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	integrationRepo := repositories.NewIntegrationRepository(db)
	alertRepo := repositories.NewAlertRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	complianceRepo := repositories.NewComplianceRepository(db)

	// Services
	scorer := risk.NewScorer()
	dispatcher := webhook.NewDispatcher(integrationRepo)
	authService := auth.NewService(adminRepo)
	reviewService := merchantreview.NewService(merchantRepo, kycRepo, scorer, dispatcher)
	kycService := kyc.NewService(kycRepo, merchantRepo, dispatcher)
	ticketService := ticket.NewService(ticketRepo)
	settingsService := settings.NewService(settingsRepo, catalogRepo)
	alertService := alert.NewService(alertRepo, dispatcher)
	analyticsService := analytics.NewService(db, merchantRepo, kycRepo, settingsService, repositories.CacheService)
	complianceService := compliance.NewService(db, complianceRepo, merchantRepo, kycRepo, scorer)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminUserHandler(adminRepo, auditRepo)
	merchantHandler := handlers.NewMerchantHandler(merchantRepo, reviewService, auditRepo)
	kycHandler := handlers.NewKYCHandler(kycService, auditRepo)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, auditRepo)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo, auditRepo)
	integrationHandler := handlers.NewIntegrationHandler(integrationRepo, alertService, auditRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	alertHandler := handlers.NewAlertHandler(alertService)
	complianceHandler := handlers.NewComplianceHandler(complianceService, auditRepo)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api/admin")

	// Public endpoints (no auth required)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.RefreshToken)

	// Inbound provider webhooks authenticate by signature, not by token.
	app.Post("/webhooks/stripe/:environment", integrationHandler.StripeWebhook)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(
		authMiddleware.Handler,
		middleware.RateLimit("admin-api", settingsRepo, repositories.CacheService),
	)

	protected.Get("/me", authHandler.Me)
	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Get("/cache-stats", middleware.RequireSuperAdmin, handlers.CacheStats)

	// Operator accounts (super admin only)
	admins := protected.Group("/admins", middleware.RequireSuperAdmin)
	admins.Get("/", adminHandler.List)
	admins.Post("/", adminHandler.Create)
	admins.Put("/:id/role", adminHandler.UpdateRole)
	admins.Post("/:id/deactivate", adminHandler.Deactivate)

	// Merchants and risk review
	merchants := protected.Group("/merchants")
	merchants.Get("/", middleware.HasPermission(models.PermissionMerchantRead), merchantHandler.List)
	merchants.Get("/:id", middleware.HasPermission(models.PermissionMerchantRead), merchantHandler.Get)
	merchants.Get("/:id/risk", middleware.HasPermission(models.PermissionRiskRead), merchantHandler.RiskDetail)
	merchants.Put("/:id/risk/override", middleware.HasPermission(models.PermissionRiskWrite), merchantHandler.SetOverrideLevel)
	merchants.Post("/:id/flags", middleware.HasPermission(models.PermissionRiskWrite), merchantHandler.AddFlag)
	merchants.Post("/flags/:flagId/resolve", middleware.HasPermission(models.PermissionRiskWrite), merchantHandler.ResolveFlag)

	// KYC review queue
	kycRoutes := protected.Group("/kyc", middleware.HasPermission(models.PermissionKYCReview))
	kycRoutes.Get("/queue", kycHandler.Queue)
	kycRoutes.Get("/:id", kycHandler.Get)
	kycRoutes.Put("/documents/:docId", kycHandler.ReviewDocument)
	kycRoutes.Post("/:id/decision", kycHandler.Decide)
	kycRoutes.Post("/:id/request-more", kycHandler.RequestMore)

	// Support tickets
	tickets := protected.Group("/tickets")
	tickets.Get("/", middleware.HasPermission(models.PermissionTicketRead), ticketHandler.List)
	tickets.Post("/", middleware.HasPermission(models.PermissionTicketWrite), ticketHandler.Create)
	tickets.Get("/:id", middleware.HasPermission(models.PermissionTicketRead), ticketHandler.Get)
	tickets.Put("/:id/assign", middleware.HasPermission(models.PermissionTicketWrite), ticketHandler.Assign)
	tickets.Put("/:id/status", middleware.HasPermission(models.PermissionTicketWrite), ticketHandler.Transition)
	tickets.Put("/:id/priority", middleware.HasPermission(models.PermissionTicketWrite), ticketHandler.SetPriority)
	tickets.Post("/:id/comments", middleware.HasPermission(models.PermissionTicketWrite), ticketHandler.Comment)

	// Platform settings
	settingsRoutes := protected.Group("/settings")
	settingsRoutes.Get("/fees/:corridor", middleware.HasPermission(models.PermissionSettingsRead), settingsHandler.GetFeeSchedule)
	settingsRoutes.Put("/fees/:corridor", middleware.HasPermission(models.PermissionSettingsWrite), settingsHandler.SaveFeeSchedule)
	settingsRoutes.Post("/fees/preview", middleware.HasPermission(models.PermissionSettingsRead), settingsHandler.PreviewFee)
	settingsRoutes.Get("/flags", middleware.HasPermission(models.PermissionSettingsRead), settingsHandler.FeatureFlags)
	settingsRoutes.Put("/flags", middleware.HasPermission(models.PermissionSettingsWrite), settingsHandler.SaveFeatureFlag)
	settingsRoutes.Delete("/flags/:key", middleware.HasPermission(models.PermissionSettingsWrite), settingsHandler.DeleteFeatureFlag)
	settingsRoutes.Get("/rate-limits", middleware.HasPermission(models.PermissionSettingsRead), settingsHandler.RateLimitRules)
	settingsRoutes.Put("/rate-limits", middleware.HasPermission(models.PermissionSettingsWrite), settingsHandler.SaveRateLimitRule)
	settingsRoutes.Delete("/rate-limits/:scope", middleware.HasPermission(models.PermissionSettingsWrite), settingsHandler.DeleteRateLimitRule)

	// Reference data
	catalog := protected.Group("/catalog")
	catalog.Get("/currencies", middleware.HasPermission(models.PermissionSettingsRead), catalogHandler.Currencies)
	catalog.Put("/currencies", middleware.HasPermission(models.PermissionSettingsWrite), catalogHandler.SaveCurrency)
	catalog.Delete("/currencies/:code", middleware.HasPermission(models.PermissionSettingsWrite), catalogHandler.DeleteCurrency)
	catalog.Get("/locations", middleware.HasPermission(models.PermissionSettingsRead), catalogHandler.Locations)
	catalog.Put("/locations", middleware.HasPermission(models.PermissionSettingsWrite), catalogHandler.SaveLocation)
	catalog.Delete("/locations/:id", middleware.HasPermission(models.PermissionSettingsWrite), catalogHandler.DeleteLocation)
	catalog.Get("/tax-rules", middleware.HasPermission(models.PermissionSettingsRead), catalogHandler.TaxRules)
	catalog.Put("/tax-rules", middleware.HasPermission(models.PermissionSettingsWrite), catalogHandler.SaveTaxRule)
	catalog.Delete("/tax-rules/:id", middleware.HasPermission(models.PermissionSettingsWrite), catalogHandler.DeleteTaxRule)
	catalog.Get("/pricing-rules", middleware.HasPermission(models.PermissionSettingsRead), catalogHandler.PricingRules)
	catalog.Put("/pricing-rules", middleware.HasPermission(models.PermissionSettingsWrite), catalogHandler.SavePricingRule)
	catalog.Delete("/pricing-rules/:id", middleware.HasPermission(models.PermissionSettingsWrite), catalogHandler.DeletePricingRule)

	// Integrations and outbound webhooks
	integrations := protected.Group("/integrations")
	integrations.Get("/", middleware.HasPermission(models.PermissionSettingsRead), integrationHandler.List)
	integrations.Put("/", middleware.HasPermission(models.PermissionSettingsWrite), integrationHandler.Save)
	integrations.Delete("/:id", middleware.HasPermission(models.PermissionSettingsWrite), integrationHandler.Delete)
	integrations.Get("/webhooks", middleware.HasPermission(models.PermissionSettingsRead), integrationHandler.WebhookEndpoints)
	integrations.Post("/webhooks", middleware.HasPermission(models.PermissionSettingsWrite), integrationHandler.CreateWebhookEndpoint)
	integrations.Put("/webhooks/:id", middleware.HasPermission(models.PermissionSettingsWrite), integrationHandler.UpdateWebhookEndpoint)
	integrations.Delete("/webhooks/:id", middleware.HasPermission(models.PermissionSettingsWrite), integrationHandler.DeleteWebhookEndpoint)
	integrations.Get("/webhooks/:id/deliveries", middleware.HasPermission(models.PermissionSettingsRead), integrationHandler.Deliveries)

	// Dashboard, alerts, compliance and audit
	protected.Get("/analytics/overview", middleware.HasPermission(models.PermissionAnalyticsRead), analyticsHandler.Overview)

	alerts := protected.Group("/alerts")
	alerts.Get("/", middleware.HasPermission(models.PermissionAlertRead), alertHandler.List)
	alerts.Post("/", middleware.HasPermission(models.PermissionAlertWrite), alertHandler.Raise)
	alerts.Post("/:id/ack", middleware.HasPermission(models.PermissionAlertWrite), alertHandler.Acknowledge)

	complianceRoutes := protected.Group("/compliance/reports")
	complianceRoutes.Get("/", middleware.HasPermission(models.PermissionComplianceRead), complianceHandler.List)
	complianceRoutes.Post("/", middleware.HasPermission(models.PermissionComplianceWrite), complianceHandler.Generate)
	complianceRoutes.Get("/:id", middleware.HasPermission(models.PermissionComplianceRead), complianceHandler.Get)
	complianceRoutes.Get("/:id/export", middleware.HasPermission(models.PermissionComplianceRead), complianceHandler.ExportCSV)

	protected.Get("/audit-log", middleware.HasPermission(models.PermissionReadAdmin), auditHandler.List)
}
