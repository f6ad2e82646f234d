package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jeneser/pos-api/internal/application/service"
	"github.com/jeneser/pos-api/internal/application/store"
	"github.com/jeneser/pos-api/internal/config"
	"github.com/jeneser/pos-api/internal/infrastructure/database"
	"github.com/jeneser/pos-api/internal/infrastructure/repository"
	"github.com/jeneser/pos-api/internal/presentation/http/handler"
	"github.com/jeneser/pos-api/internal/presentation/http/routes"
	"github.com/jeneser/pos-api/pkg/payment"
	"github.com/jeneser/pos-api/pkg/utils"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Register-session ticket state
	ticketStore := store.NewTicketStore()

	// Payment gateway; without credentials a mock fabricates order references
	gateway := payment.NewGatewayFromConfig(payment.HTTPGatewayConfig{
		BaseURL:      cfg.Payment.BaseURL,
		TokenURL:     cfg.Payment.TokenURL,
		ClientID:     cfg.Payment.ClientID,
		ClientSecret: cfg.Payment.ClientSecret,
	})

	taxRate := decimal.NewFromFloat(cfg.Settlement.TaxRate)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo)
	ticketService := service.NewTicketService(ticketStore, productRepo, taxRate, cfg.Barcode.MinLength)
	checkoutService := service.NewCheckoutService(ticketStore, gateway, orderRepo, taxRate)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(productService),
		Ticket:   handler.NewTicketHandler(ticketService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
