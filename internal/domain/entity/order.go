package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jeneser/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Order is the persisted record of a completed ticket payment.
type Order struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	TicketID      string             `gorm:"size:100;not null;index" json:"ticket_id"`
	TicketName    string             `gorm:"size:255" json:"ticket_name"`
	OrderRef      string             `gorm:"size:255;not null" json:"order_ref"`
	PaymentMethod enum.PaymentMethod `gorm:"size:50" json:"payment_method"`
	TotalItems    int                `gorm:"default:0" json:"total_items"`
	SubTotal      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discount      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Payable       int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PaidAt        time.Time          `gorm:"not null" json:"paid_at"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	User    User          `gorm:"foreignKey:UserID" json:"-"`
	Details []OrderDetail `gorm:"foreignKey:OrderID" json:"details,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"sub_total"`
		Discount float64 `json:"discount"`
		Payable  float64 `json:"payable"`
	}{
		Alias:    Alias(o),
		SubTotal: float64(o.SubTotal) / 100,
		Discount: float64(o.Discount) / 100,
		Payable:  float64(o.Payable) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// GetPayableDecimal returns the payable amount as a decimal
func (o *Order) GetPayableDecimal() float64 {
	return float64(o.Payable) / 100
}

// OrderDetail is a settled line item of a completed order.
type OrderDetail struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ItemID    string         `gorm:"size:100;not null" json:"item_id"`
	ItemType  enum.ItemType  `gorm:"size:20;not null" json:"item_type"`
	Title     string         `gorm:"size:255" json:"title"`
	Amount    int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (od OrderDetail) MarshalJSON() ([]byte, error) {
	type Alias OrderDetail
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(od),
		Amount: float64(od.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order detail
func (od *OrderDetail) BeforeCreate(tx *gorm.DB) error {
	if od.ID == uuid.Nil {
		od.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderDetail model
func (OrderDetail) TableName() string {
	return "order_details"
}
