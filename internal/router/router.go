package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nr6/internal/config"
	"nr6/internal/handler"
	"nr6/internal/metrics"
	"nr6/internal/middleware"
	"nr6/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health     *handler.HealthHandler
	Calculator *handler.CalculatorHandler
	Wizard     *handler.WizardHandler
	Order      *handler.OrderHandler
	Contact    *handler.ContactHandler
	Webhook    *handler.WebhookHandler
	Auth       *handler.AuthHandler
	Admin      *handler.AdminHandler
	Stream     *handler.StreamHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, log *zap.Logger, authSvc service.AuthService, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks and scraping
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	limited := middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Public intake routes
	v1.POST("/calculator", h.Calculator.Quote)

	wizard := v1.Group("/wizard")
	wizard.POST("", h.Wizard.Start)
	wizard.GET("", h.Wizard.Get)
	wizard.DELETE("", h.Wizard.Reset)
	wizard.POST("/next", h.Wizard.Next)
	wizard.POST("/prev", h.Wizard.Prev)
	wizard.POST("/attachment", limited, h.Wizard.Attach)
	wizard.DELETE("/attachment", h.Wizard.Detach)
	wizard.POST("/submit", limited, h.Wizard.Submit)

	v1.POST("/filings/:id/checkout", limited, h.Order.Checkout)
	v1.GET("/orders/:reference", h.Order.Order)
	v1.POST("/contact", limited, h.Contact.Submit)

	// Payment provider callbacks
	v1.POST("/webhooks/stripe", h.Webhook.Stripe)

	// Admin auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", limited, h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Admin routes - require valid JWT
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authSvc))
	admin.GET("/me", h.Auth.Me)
	admin.GET("/stats", h.Admin.Stats)
	admin.GET("/stream", h.Stream.Stream)

	filings := admin.Group("/filings")
	filings.GET("", h.Admin.ListFilings)
	filings.GET("/export.csv", h.Admin.ExportCSV)
	filings.GET("/export.xlsx", h.Admin.ExportXLSX)
	filings.GET("/:id", h.Admin.GetFiling)
	filings.PATCH("/:id/status", h.Admin.UpdateFilingStatus)
	filings.PATCH("/:id/notes", h.Admin.UpdateFilingNotes)
	filings.GET("/:id/attachment", h.Admin.Attachment)

	contacts := admin.Group("/contacts")
	contacts.GET("", h.Admin.ListContacts)
	contacts.GET("/:id", h.Admin.GetContact)
	contacts.PATCH("/:id/status", h.Admin.UpdateContactStatus)
	contacts.PATCH("/:id/notes", h.Admin.UpdateContactNotes)

	return r
}
