package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/hoteliq/billing_backend/cmd/docs"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/middleware"
	"github.com/hoteliq/billing_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public webhook ingestion and gateway redirect endpoints
	setupPublicRoutes(r, cfg, services)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupPublicRoutes configures the endpoints external systems call without a
// staff JWT: signed webhook deliveries and the PayPal payer redirects.
func setupPublicRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	webhooks := r.Group("/webhooks",
		middleware.RateLimit(newWebhookLimiter(cfg.WebhookRateLimit)),
		middleware.WebhookSignature(cfg.WebhookSecret),
	)
	registerWebhookIngestRoutes(webhooks, services.WebhookSvc)

	if services.PayPalSvc != nil {
		redirects := r.Group("/api/v1")
		registerPayPalRedirectRoutes(redirects, services.PayPalSvc)
	}
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	// Delegate route registration to specific handlers, passing required services
	registerGuestRoutes(v1, services.GuestSvc)
	registerReservationRoutes(v1, services.ReservationSvc)
	registerFolioRoutes(v1, services.FolioSvc)
	registerInvoiceRoutes(v1, services.InvoiceSvc, services.PaymentSvc)
	registerPaymentRoutes(v1, services.PaymentSvc)
	registerDiscountRoutes(v1, services.DiscountSvc)
	registerTaxRuleRoutes(v1, services.TaxRuleSvc)
	registerPaymentMethodRoutes(v1, services.PaymentMethodSvc)
	registerCorporateAccountRoutes(v1, services.CorporateAccountSvc, services.InvoiceSvc)
	registerReportingRoutes(v1, services.ReportingSvc)
	registerWebhookAdminRoutes(v1, services.WebhookSvc)
	if services.PayPalSvc != nil {
		registerPayPalRoutes(v1, services.PayPalSvc)
	}
}

// newWebhookLimiter builds an in-memory per-IP limiter for the ingestion
// endpoints.
func newWebhookLimiter(formatted string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		log.Printf("Warning: invalid webhook rate limit %q, falling back to 120-M: %v", formatted, err)
		rate, _ = limiter.NewRateFromFormatted("120-M")
	}
	return limiter.New(memory.NewStore(), rate)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
