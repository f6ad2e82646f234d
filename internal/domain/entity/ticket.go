package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/jeneser/pos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DefaultTicketName is the display label for quick-created tickets.
const DefaultTicketName = "custom ticket"

// Ticket is an open customer bill on the register. Tickets live in process
// memory for the duration of a register session; only completed payments are
// persisted (as Order records).
type Ticket struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Info          string             `json:"info"`
	IsCurrent     bool               `json:"is_current"`
	PaymentStatus enum.PaymentStatus `json:"payment_status"`
	OrderRef      string             `json:"order_ref,omitempty"`
	Items         []LineItem         `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

// NewTicket creates a quick "custom ticket" with a fresh id and a
// creation-time label.
func NewTicket() *Ticket {
	now := time.Now()
	return &Ticket{
		ID:            uuid.New().String(),
		Name:          DefaultTicketName,
		Info:          now.Format("03:04:05 pm"),
		PaymentStatus: enum.PaymentStatusUnpaid,
		Items:         []LineItem{},
		CreatedAt:     now,
	}
}

// LineItem is a single entry on a ticket: either a scanned product
// (ItemTypeItem) or a discount/promotion entry (ItemTypeGift).
type LineItem struct {
	Key          string        `json:"key"`
	ItemID       string        `json:"item_id"`
	ItemType     enum.ItemType `json:"item_type"`
	ItemPrice    LenientAmount `json:"item_price"`
	DiscountRate LenientAmount `json:"discount_rate"`

	// Display-only fields carried through for the client.
	Title     string `json:"title,omitempty"`
	Image     string `json:"image,omitempty"`
	ItemSize  string `json:"item_size,omitempty"`
	ItemColor string `json:"item_color,omitempty"`
}

// LenientAmount is a decimal that never fails to decode: malformed or
// missing numeric input is coerced to zero. Gift entries routinely arrive
// without a price or without a rate, and product feeds send prices as
// either numbers or strings.
type LenientAmount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal as a LenientAmount.
func NewAmount(d decimal.Decimal) LenientAmount {
	return LenientAmount{d}
}

// AmountFromCents converts an integer cents value to a LenientAmount.
func AmountFromCents(cents int64) LenientAmount {
	return LenientAmount{decimal.New(cents, -2)}
}

func (a *LenientAmount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

func (a LenientAmount) MarshalJSON() ([]byte, error) {
	return a.Decimal.MarshalJSON()
}
