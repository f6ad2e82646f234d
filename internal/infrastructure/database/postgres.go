package database

import (
	"fmt"
	"log"

	"github.com/jeneser/pos-api/internal/config"
	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Product{},
		&entity.Order{},
		&entity.OrderDetail{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the default cashier account and a starter product
// catalog on an empty database.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existing entity.User
		if err := db.Where("email = ?", adminEmail).First(&existing).Error; err != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Cashier"
				}
				admin := entity.User{
					Name:      adminName,
					Email:     adminEmail,
					Password:  string(hashed),
					StoreName: viper.GetString("STORE_NAME"),
				}
				if err := db.Create(&admin).Error; err != nil {
					log.Printf("Warning: failed to create default cashier: %v", err)
				} else {
					log.Printf("Created default cashier: %s", adminEmail)
				}
			}
		}
	}

	var productCount int64
	if err := db.Model(&entity.Product{}).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if productCount > 0 {
		log.Println("Product catalog already seeded, skipping")
		return nil
	}

	products := []entity.Product{
		{
			Barcode:       "6901234560012",
			Title:         "Classic Cotton T-Shirt",
			ShortTitle:    "Cotton Tee",
			Price:         9900,
			OriginalPrice: 12900,
			Size:          "M",
			Color:         "White",
		},
		{
			Barcode:       "6901234560029",
			Title:         "Slim Fit Denim Jeans",
			ShortTitle:    "Denim Jeans",
			Price:         25900,
			OriginalPrice: 29900,
			Size:          "32",
			Color:         "Indigo",
		},
		{
			Barcode:       "6901234560036",
			Title:         "Canvas Sneakers Low Top",
			ShortTitle:    "Canvas Sneakers",
			Price:         19900,
			OriginalPrice: 19900,
			Size:          "42",
			Color:         "Black",
		},
		{
			Barcode:       "6901234560043",
			Title:         "Wool Blend Scarf",
			ShortTitle:    "Wool Scarf",
			Price:         8900,
			OriginalPrice: 10900,
			Size:          "One Size",
			Color:         "Grey",
		},
		{
			Barcode:       "6901234560050",
			Title:         "Leather Belt Classic Buckle",
			ShortTitle:    "Leather Belt",
			Price:         12900,
			OriginalPrice: 15900,
			Size:          "L",
			Color:         "Brown",
		},
	}
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Printf("Seeded %d products", len(products))
	return nil
}
