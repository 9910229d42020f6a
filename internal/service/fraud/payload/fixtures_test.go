package payload

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fraudgate/internal/service/fraud/checkout"
	"fraudgate/internal/service/fraud/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

// sampleOrder 是一个带折扣、账单和收货地址的实体订单。
func sampleOrder() *domain.Order {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Order{
		IncrementID:    "100000123",
		CustomerEmail:  ptr("a@b.com"),
		CurrencyCode:   "EUR",
		GrandTotal:     dec("100.00"),
		DiscountAmount: nullDec("-10.00"),
		CouponCode:     ptr("WELCOME10"),
		ShippingMethod: ptr("flatrate_flatrate"),
		ShippingAmount: nullDec("5.00"),
		RemoteIP:       ptr("203.0.113.7"),
		CreatedAt:      &created,
		Items: []domain.Item{
			{ItemID: "1", ProductID: "42", Sku: "ABC", Name: "Shirt", Price: dec("40.00"), QtyOrdered: dec("2.0000")},
			{ItemID: "2", ParentItemID: ptr("1"), ProductID: "43", Sku: "ABC-RED", Name: "Shirt Red", Price: dec("0"), QtyOrdered: dec("2")},
		},
		BillingAddress: &domain.Address{
			Firstname: ptr("Jane"),
			Lastname:  ptr("Doe"),
			Email:     ptr("a@b.com"),
			Street:    []string{"1 Main St", "Apt 2"},
			City:      ptr("Paris"),
			Postcode:  ptr("75001"),
			CountryID: ptr("FR"),
			Telephone: ptr("+33100000000"),
		},
		ShippingAddress: &domain.Address{
			Firstname:         ptr("Jane"),
			Lastname:          ptr("Doe"),
			Street:            []string{"1 Main St"},
			City:              ptr("Paris"),
			Postcode:          ptr("75001"),
			CountryID:         ptr("FR"),
			Telephone:         ptr("+33100000000"),
			CustomerAddressID: ptr("7"),
		},
		Store: domain.Store{Name: "Demo Store", URL: "https://shop.example.com/"},
	}
}

func samplePayment() *domain.Payment {
	return &domain.Payment{
		ID:      "pay_1",
		OrderNo: "100000123",
		Method:  "adyen_cc",
		AdditionalInformation: map[string]any{
			"tapbuy": `{"forter_token":"tok_abc","collected_forter_data":"{\"cardBrand\":\"visa\",\"cardBin\":\"411111\",\"cardLast4Digits\":\"1111\"}"}`,
		},
	}
}

func sampleRequest() domain.RequestContext {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0")
	h.Set("X-Tapbuy-Call", "1")
	return domain.RequestContext{Headers: h, RemoteAddr: "198.51.100.1"}
}

func sampleData() *checkout.Data {
	return checkout.FromPayment("", samplePayment())
}
