package payload

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItemsOnlyVisible(t *testing.T) {
	items := NewCartBuilder().CartItems(sampleOrder())

	require.Len(t, items, 1)
	assert.Equal(t, "ABC", items[0].Sku)
	assert.Equal(t, int64(2), items[0].Qty)
	assert.Equal(t, "42", items[0].ProductID)
	assert.True(t, items[0].Price.Equal(dec("40")))
}

func TestCartItemsEmptyOrder(t *testing.T) {
	order := sampleOrder()
	order.Items = nil

	raw, err := json.Marshal(NewCartBuilder().CartItems(order))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestTotalDiscount(t *testing.T) {
	b := NewCartBuilder()

	t.Run("null discount", func(t *testing.T) {
		order := sampleOrder()
		order.DiscountAmount = decimal.NullDecimal{}
		assert.Nil(t, b.TotalDiscount(order))
	})

	t.Run("zero discount", func(t *testing.T) {
		order := sampleOrder()
		order.DiscountAmount = nullDec("0.0000")
		assert.Nil(t, b.TotalDiscount(order))
	})

	for _, tc := range []struct{ stored, want string }{
		{"-10.00", "10"},
		{"-10.5", "10.5"},
		{"-0.01", "0.01"},
		{"7.25", "7.25"},
	} {
		t.Run(tc.stored, func(t *testing.T) {
			order := sampleOrder()
			order.DiscountAmount = nullDec(tc.stored)

			discount := b.TotalDiscount(order)
			require.NotNil(t, discount)
			assert.Equal(t, tc.want, discount.DiscountAmount.AmountLocalCurrency)
			assert.Equal(t, "EUR", discount.DiscountAmount.Currency)
			assert.Equal(t, "WELCOME10", *discount.CouponCodeUsed)
		})
	}
}

func TestTotalAmount(t *testing.T) {
	raw, err := json.Marshal(NewCartBuilder().TotalAmount(sampleOrder()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"orderTotal":{"grossPrice":100}}`, string(raw))
}
