package settlement

import (
	"encoding/json"
	"testing"

	"github.com/jeneser/pos-api/internal/domain/entity"
	"github.com/jeneser/pos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) entity.LenientAmount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return entity.NewAmount(d)
}

func item(price string) entity.LineItem {
	return entity.LineItem{ItemType: enum.ItemTypeItem, ItemPrice: amount(price)}
}

func giftPrice(price string) entity.LineItem {
	return entity.LineItem{ItemType: enum.ItemTypeGift, ItemPrice: amount(price)}
}

func giftRate(rate string) entity.LineItem {
	return entity.LineItem{ItemType: enum.ItemTypeGift, DiscountRate: amount(rate)}
}

func TestCalculate(t *testing.T) {
	zero := decimal.Zero

	cases := []struct {
		name     string
		items    []entity.LineItem
		taxRate  decimal.Decimal
		subtotal string
		discount string
		payable  string
	}{
		{
			name:     "single item no discount",
			items:    []entity.LineItem{item("100")},
			taxRate:  zero,
			subtotal: "100",
			discount: "0",
			payable:  "100",
		},
		{
			name:     "rate-based gift applies (1 - rate) against subtotal",
			items:    []entity.LineItem{item("100"), giftRate("0.1")},
			taxRate:  zero,
			subtotal: "100",
			discount: "90",
			payable:  "10",
		},
		{
			name:     "flat gift larger than subtotal clamps payable at zero",
			items:    []entity.LineItem{item("50"), giftPrice("60")},
			taxRate:  zero,
			subtotal: "50",
			discount: "60",
			payable:  "0",
		},
		{
			name:     "gift entries never count toward subtotal",
			items:    []entity.LineItem{item("30"), item("20"), giftPrice("5")},
			taxRate:  zero,
			subtotal: "50",
			discount: "5",
			payable:  "45",
		},
		{
			name:     "gift with price and rate uses the price",
			items:    []entity.LineItem{item("100"), {ItemType: enum.ItemTypeGift, ItemPrice: amount("20"), DiscountRate: amount("0.5")}},
			taxRate:  zero,
			subtotal: "100",
			discount: "20",
			payable:  "80",
		},
		{
			name:     "gift with neither price nor rate contributes nothing",
			items:    []entity.LineItem{item("100"), {ItemType: enum.ItemTypeGift}},
			taxRate:  zero,
			subtotal: "100",
			discount: "0",
			payable:  "100",
		},
		{
			name:     "tax applied after discount",
			items:    []entity.LineItem{item("100"), giftPrice("20")},
			taxRate:  decimal.NewFromFloat(0.1),
			subtotal: "100",
			discount: "20",
			payable:  "72",
		},
		{
			name:     "payable rounded to 2 places",
			items:    []entity.LineItem{item("99.99"), giftRate("0.667")},
			taxRate:  zero,
			subtotal: "99.99",
			discount: "33.30", // 99.99 * 0.333 = 33.29667
			payable:  "66.69",
		},
		{
			name:     "empty ticket",
			items:    nil,
			taxRate:  zero,
			subtotal: "0",
			discount: "0",
			payable:  "0",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.items, tt.taxRate)
			assert.True(t, got.Subtotal.Equal(decimal.RequireFromString(tt.subtotal)),
				"subtotal = %s, want %s", got.Subtotal, tt.subtotal)
			assert.True(t, got.Discount.Equal(decimal.RequireFromString(tt.discount)),
				"discount = %s, want %s", got.Discount, tt.discount)
			assert.True(t, got.Payable.Equal(decimal.RequireFromString(tt.payable)),
				"payable = %s, want %s", got.Payable, tt.payable)
		})
	}
}

func TestCalculateDeterministic(t *testing.T) {
	items := []entity.LineItem{item("12.34"), item("56.78"), giftRate("0.25"), giftPrice("3")}
	rate := decimal.NewFromFloat(0.05)

	first := Calculate(items, rate)
	second := Calculate(items, rate)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Discount.Equal(second.Discount))
	assert.True(t, first.Payable.Equal(second.Payable))
}

func TestCalculatePayableNeverNegative(t *testing.T) {
	cases := [][]entity.LineItem{
		{item("10"), giftPrice("1000")},
		{item("10"), giftRate("0.01")}, // discount = 10 * 0.99 = 9.9
		{giftPrice("50")},              // discount with no items at all
	}

	for _, items := range cases {
		got := Calculate(items, decimal.Zero)
		assert.False(t, got.Payable.IsNegative(), "payable %s for %+v", got.Payable, items)
	}
}

func TestMalformedAmountsCoerceToZero(t *testing.T) {
	var li entity.LineItem
	err := json.Unmarshal([]byte(`{"item_type":"item","item_price":"not-a-number","discount_rate":{}}`), &li)
	require.NoError(t, err)
	assert.True(t, li.ItemPrice.IsZero())
	assert.True(t, li.DiscountRate.IsZero())

	got := Calculate([]entity.LineItem{li}, decimal.Zero)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Payable.IsZero())
}
