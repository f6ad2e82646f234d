package request

import "github.com/jeneser/pos-api/internal/domain/entity"

// AddLineItemRequest represents a manual line-item entry. Amount fields are
// lenient: malformed values settle to zero instead of rejecting the entry.
type AddLineItemRequest struct {
	ItemID       string               `json:"item_id"`
	ItemType     string               `json:"item_type" binding:"required"`
	ItemPrice    entity.LenientAmount `json:"item_price"`
	DiscountRate entity.LenientAmount `json:"discount_rate"`
	Title        string               `json:"title" binding:"omitempty,max=255"`
	Image        string               `json:"image"`
	ItemSize     string               `json:"item_size" binding:"omitempty,max=50"`
	ItemColor    string               `json:"item_color" binding:"omitempty,max=50"`
}

// ScanRequest represents a barcode scanner submission
type ScanRequest struct {
	Barcode string `json:"barcode"`
}

// CompletePaymentRequest represents a payment completion request
type CompletePaymentRequest struct {
	PaymentMethod string `json:"pay_method" binding:"required"`
}
