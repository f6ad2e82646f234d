package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog entry looked up by scanned barcode.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Barcode       string         `gorm:"size:100;unique;not null" json:"barcode"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	ShortTitle    string         `gorm:"size:255" json:"short_title"`
	Price         int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	OriginalPrice int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Size          string         `gorm:"size:50" json:"size"`
	Color         string         `gorm:"size:50" json:"color"`
	Image         *string        `gorm:"size:255" json:"image,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price         float64 `json:"price"`
		OriginalPrice float64 `json:"original_price"`
	}{
		Alias:         Alias(p),
		Price:         float64(p.Price) / 100,
		OriginalPrice: float64(p.OriginalPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetPriceDecimal returns the selling price as a decimal (for display)
func (p *Product) GetPriceDecimal() float64 {
	return float64(p.Price) / 100
}

// SetPriceFromDecimal sets the selling price from a decimal value
func (p *Product) SetPriceFromDecimal(price float64) {
	p.Price = int64(price * 100)
}

// SetOriginalPriceFromDecimal sets the list price from a decimal value
func (p *Product) SetOriginalPriceFromDecimal(price float64) {
	p.OriginalPrice = int64(price * 100)
}
