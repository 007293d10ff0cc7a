package v1

import (
	"fmt"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storedesk/internal/domain/cashflow"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/domain/catalogs/product"
	"storedesk/internal/domain/conversion"
	"storedesk/internal/domain/documents/invoice"
	"storedesk/internal/domain/documents/order"
	"storedesk/internal/domain/documents/purchase"
	"storedesk/internal/domain/documents/quote"
	"storedesk/internal/domain/payment"
	"storedesk/internal/domain/reports"
	"storedesk/internal/infrastructure/http/v1/handlers"
	"storedesk/internal/infrastructure/http/v1/middleware"
	"storedesk/pkg/logger"
)

// Services are the domain services the API exposes.
type Services struct {
	Products   *product.Service
	Customers  *partner.Service
	Suppliers  *partner.Service
	Quotes     *quote.Service
	Orders     *order.Service
	Invoices   *invoice.Service
	Purchases  *purchase.Service
	Conversion *conversion.Service
	Payments   *payment.Service
	Reports    *reports.Service
	Cashflow   *cashflow.Service
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation. Nil disables authentication.
	JWTValidator middleware.JWTValidator

	// Storage is pinged by the readiness probe.
	Storage       handlers.Pinger
	StorageDriver string

	// CORSOrigins lists allowed origins; empty or "*" allows any.
	CORSOrigins []string

	// Debug switches gin to debug mode.
	Debug bool

	Services Services
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace(cfg.Logger))
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	healthHandler := handlers.NewHealthHandler(cfg.Storage, cfg.StorageDriver)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		api.Use(middleware.Auth(cfg.JWTValidator))
	}

	base := handlers.NewBaseHandler()
	registerCatalogRoutes(api, base, cfg.Services)
	registerDocumentRoutes(api, base, cfg.Services)

	cashflowHandler := handlers.NewCashflowHandler(base, cfg.Services.Cashflow)
	api.GET("/cashflow", cashflowHandler.List)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID, middleware.HeaderTraceID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID, middleware.HeaderTraceID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, s Services) {
	{
		handler := handlers.NewProductHandler(base, s.Products)
		products := rg.Group("/products")
		RegisterReadRoutes(products, handler)
		products.POST("", handler.Create)
	}
	RegisterPartnerRoutes(rg.Group("/customers"), handlers.NewPartnerHandler(base, s.Customers))
	RegisterPartnerRoutes(rg.Group("/suppliers"), handlers.NewPartnerHandler(base, s.Suppliers))
}

func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, s Services) {
	{
		handler := handlers.NewQuoteHandler(base, s.Quotes, s.Conversion, s.Reports)
		quotes := rg.Group("/quotes")
		RegisterReadRoutes(quotes, handler)
		quotes.POST("", handler.Create)
		quotes.PUT("/:id", handler.Update)
		quotes.DELETE("/:id", handler.Delete)
		quotes.POST("/:id/to-order", handler.ToOrder)
	}
	{
		handler := handlers.NewOrderHandler(base, s.Orders, s.Conversion, s.Reports)
		orders := rg.Group("/orders")
		RegisterReadRoutes(orders, handler)
		orders.POST("", handler.Create)
		orders.PUT("/:id", handler.Update)
		orders.POST("/:id/to-invoice", handler.ToInvoice)
	}
	{
		handler := handlers.NewInvoiceHandler(base, s.Invoices, s.Payments, s.Reports)
		invoices := rg.Group("/invoices")
		RegisterReadRoutes(invoices, handler)
		invoices.POST("/:id/payment", handler.Pay)
	}
	{
		handler := handlers.NewPurchaseHandler(base, s.Purchases, s.Payments, s.Reports)
		purchases := rg.Group("/purchases")
		RegisterReadRoutes(purchases, handler)
		purchases.POST("", handler.Create)
		purchases.POST("/:id/payment", handler.Pay)
	}
}
