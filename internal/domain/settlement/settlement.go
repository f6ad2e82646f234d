// Package settlement derives the amounts shown on the register: subtotal,
// total discount and the payable amount for a ticket's line items.
package settlement

import (
	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Summary holds the settled amounts for one ticket. Discount and Payable are
// rounded to 2 places; Subtotal is the raw sum, since the rate-based discount
// formula references the un-rounded subtotal.
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Payable  decimal.Decimal `json:"payable"`
}

// Calculate settles a ticket's line items against a tax rate.
//
//	subtotal = sum of item prices over regular items
//	discount = per gift entry: its price when set, otherwise
//	           subtotal * (1 - rate) when a rate is set, otherwise 0
//	payable  = max(0, subtotal - discount) * (1 - taxRate)
//
// The function is pure: same items and rate always produce the same summary.
// Missing or malformed numeric fields are zero by the time they get here
// (entity.LenientAmount) and a zero price or rate counts as absent, matching
// the register's permissive input handling.
func Calculate(items []entity.LineItem, taxRate decimal.Decimal) Summary {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.ItemType == enum.ItemTypeItem {
			subtotal = subtotal.Add(item.ItemPrice.Decimal)
		}
	}

	discount := decimal.Zero
	for _, item := range items {
		if item.ItemType != enum.ItemTypeGift {
			continue
		}
		switch {
		case !item.ItemPrice.IsZero():
			discount = discount.Add(item.ItemPrice.Decimal)
		case !item.DiscountRate.IsZero():
			discount = discount.Add(subtotal.Mul(one.Sub(item.DiscountRate.Decimal)))
		}
	}
	discount = discount.Round(2)

	payable := subtotal.Sub(discount)
	if payable.IsNegative() {
		payable = decimal.Zero
	}
	payable = payable.Mul(one.Sub(taxRate)).Round(2)

	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Payable:  payable,
	}
}
