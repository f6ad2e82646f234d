package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeneser/pos-api/internal/config"
	domainRepo "github.com/jeneser/pos-api/internal/domain/repository"
	"github.com/jeneser/pos-api/internal/presentation/http/handler"
	"github.com/jeneser/pos-api/internal/presentation/http/middleware"
	"github.com/jeneser/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Ticket   *handler.TicketHandler
	Checkout *handler.CheckoutHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-cashier rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile
	protected.GET("/profile", h.Auth.Profile)

	// Products
	registerProductRoutes(protected, h)

	// Tickets
	registerTicketRoutes(protected, h)

	// Checkout
	registerCheckoutRoutes(protected, h, deps)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/barcode/:barcode", h.Product.GetByBarcode)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerTicketRoutes(protected *gin.RouterGroup, h *Handlers) {
	tickets := protected.Group("/tickets")
	{
		tickets.GET("", h.Ticket.List)
		tickets.POST("", h.Ticket.Create)
		tickets.GET("/current", h.Ticket.Current)
		tickets.DELETE("/current", h.Ticket.Delete)
		tickets.PUT("/current/gift-mode", h.Ticket.ToggleGiftMode)
		tickets.POST("/current/items", h.Ticket.AddItem)
		tickets.DELETE("/current/items/:key", h.Ticket.DeleteItem)
		tickets.POST("/current/scan", h.Ticket.Scan)
		tickets.PUT("/:id/select", h.Ticket.Select)
	}
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	checkout := protected.Group("/checkout")
	{
		checkout.POST("/refresh", h.Checkout.Refresh)
		// Payment completion uses idempotency middleware to prevent duplicates
		checkout.POST("/complete", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Checkout.Complete)
	}

	orders := protected.Group("/orders")
	{
		orders.GET("", h.Checkout.ListOrders)
		orders.GET("/:id", h.Checkout.GetOrder)
	}
}
