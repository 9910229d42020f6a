package payload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudgate/internal/service/fraud/domain"
)

func newTestAssembler() *Assembler {
	return NewAssembler(NewBasicInfoBuilder(), NewCartBuilder(), NewCustomerBuilder(nil, nil), NewPaymentBuilder())
}

func compact(t *testing.T, s string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Compact(&buf, []byte(s)))
	return buf.String()
}

// 键顺序是线上格式的一部分，这里逐字节比较。
func TestBuildFraudDetectionPayloadKeyOrder(t *testing.T) {
	doc, err := newTestAssembler().BuildFraudDetectionPayload(context.Background(), sampleRequest(), sampleOrder(), samplePayment(), sampleData(), domain.StageBeforePayment)
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	want := `{
	  "authorizationStep": "PRE_AUTHORIZATION",
	  "connectionInformation": {"customerIP": "203.0.113.7", "userAgent": "Mozilla/5.0", "fraudDetectionCookie": "tok_abc", "merchantDeviceIdentifier": null},
	  "order": {
	    "orderNo": "100000123",
	    "creationDate": 1767323045,
	    "currency": "EUR",
	    "customer": {
	      "customerNo": null,
	      "customerEmail": "a@b.com",
	      "billingAddress": {"firstName": "Jane", "lastName": "Doe", "email": "a@b.com", "address1": "1 Main St", "address2": "Apt 2", "city": "Paris", "postalCode": "75001", "countryCode": "FR", "region": "", "company": "", "phone": "+33100000000"}
	    },
	    "shipments": [{
	      "shippingMethod": "flatrate_flatrate",
	      "shippingPrice": 5,
	      "shippingAddress": {"firstName": "Jane", "lastName": "Doe", "address1": "1 Main St", "address2": "", "city": "Paris", "postalCode": "75001", "countryCode": "FR", "region": "", "company": "", "phone": "+33100000000"}
	    }],
	    "totals": {"orderTotal": {"grossPrice": 100}},
	    "items": [{"name": "Shirt", "qty": 2, "price": 40, "productId": "42", "sku": "ABC"}],
	    "totalDiscount": {"couponCodeUsed": "WELCOME10", "discountAmount": {"amountLocalCurrency": "10", "currency": "EUR"}},
	    "payments": [{"paymentMethod": "adyen_cc", "amount": 100, "card": {"cardType": "visa", "cardBin": "411111", "cardLastDigits": "1111"}}]
	  },
	  "primaryDeliveryDetails": {"deliveryType": "PHYSICAL", "deliveryMethod": "flatrate_flatrate", "deliveryPrice": {"amountLocalCurrency": "5", "currency": "EUR"}},
	  "primaryRecipient": {
	    "personalDetails": {"firstName": "Jane", "lastName": "Doe", "email": "a@b.com"},
	    "address": {"address1": "1 Main St", "address2": "", "city": "Paris", "zip": "75001", "country": "FR", "region": "", "company": "", "savedData": {"usedSavedData": true, "choseToSaveData": false}},
	    "phone": [{"phone": "+33100000000"}]
	  },
	  "accountOwner": {"firstName": "Jane", "lastName": "Doe", "email": "a@b.com"},
	  "customerAccountData": {"customerEngagement": {"wishlist": {"inUse": false, "itemInListCount": 0}}},
	  "additionalIdentifiers": {"merchant": {"merchantDomain": "https://shop.example.com/", "merchantName": "Demo Store"}, "magentoAdditionalOrderData": {"magentoOrderStage": "BEFORE_PAYMENT_ACTION"}}
	}`
	assert.Equal(t, compact(t, want), string(raw))
}

func TestBuildFraudDetectionPayloadExample(t *testing.T) {
	doc, err := newTestAssembler().BuildFraudDetectionPayload(context.Background(), sampleRequest(), sampleOrder(), samplePayment(), sampleData(), domain.StageBeforePayment)
	require.NoError(t, err)

	assert.True(t, doc.Order.Totals.OrderTotal.GrossPrice.Equal(dec("100.00")))
	require.Len(t, doc.Order.Items, 1)
	assert.Equal(t, "ABC", doc.Order.Items[0].Sku)
	assert.Equal(t, int64(2), doc.Order.Items[0].Qty)
	assert.True(t, doc.Order.Items[0].Price.Equal(dec("40.00")))
	require.NotNil(t, doc.Order.TotalDiscount)
	assert.Equal(t, "10", doc.Order.TotalDiscount.DiscountAmount.AmountLocalCurrency)
}

func TestBuildFraudDetectionPayloadCreationDateFallback(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	order := sampleOrder()
	order.CreatedAt = nil

	doc, err := newTestAssembler().WithClock(func() time.Time { return now }).
		BuildFraudDetectionPayload(context.Background(), sampleRequest(), order, samplePayment(), sampleData(), domain.StageBeforePayment)
	require.NoError(t, err)
	assert.Equal(t, now.Unix(), doc.Order.CreationDate)
}

func TestBuildFraudDetectionPayloadDigitalOrder(t *testing.T) {
	order := sampleOrder()
	order.IsVirtual = true
	order.ShippingAddress = nil
	order.DiscountAmount.Valid = false

	doc, err := newTestAssembler().BuildFraudDetectionPayload(context.Background(), sampleRequest(), order, samplePayment(), sampleData(), domain.StagePaymentActionFailure)
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var parsed struct {
		Order                  map[string]json.RawMessage `json:"order"`
		PrimaryDeliveryDetails json.RawMessage            `json:"primaryDeliveryDetails"`
		PrimaryRecipient       json.RawMessage            `json:"primaryRecipient"`
	}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, "[]", string(parsed.Order["shipments"]))
	assert.NotContains(t, parsed.Order, "totalDiscount")
	assert.JSONEq(t, `{"deliveryType":"DIGITAL","deliveryMethod":"DIGITAL"}`, string(parsed.PrimaryDeliveryDetails))
	assert.Equal(t, "{}", string(parsed.PrimaryRecipient))
	assert.Equal(t, "PAYMENT_ACTION_FAILURE", doc.AdditionalIdentifiers.MagentoAdditionalOrderData.MagentoOrderStage)
}

func TestBuildFraudDetectionPayloadInvalidCollectedData(t *testing.T) {
	doc, err := newTestAssembler().BuildFraudDetectionPayload(context.Background(), sampleRequest(), sampleOrder(), samplePayment(), dataWithCollected("not json"), domain.StageBeforePayment)
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, domain.ErrInvalidCollectedData))
}
