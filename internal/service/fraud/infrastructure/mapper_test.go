package infrastructure

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainOrder(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	model := &SalesOrderModel{
		IncrementID:    "100000123",
		CustomerEmail:  sql.NullString{String: "a@b.com", Valid: true},
		CurrencyCode:   "EUR",
		GrandTotal:     decimal.RequireFromString("100.00"),
		DiscountAmount: decimal.NewNullDecimal(decimal.RequireFromString("-10.00")),
		StoreName:      "Main Store",
		StoreURL:       "https://shop.example.com/",
		CreatedAt:      sql.NullTime{Time: created, Valid: true},
		Items: []SalesOrderItemModel{
			{ItemID: 1, ProductID: "42", Sku: "ABC", Price: decimal.RequireFromString("40"), QtyOrdered: decimal.RequireFromString("2")},
			{ItemID: 2, ParentItemID: sql.NullInt64{Int64: 1, Valid: true}, Sku: "ABC-RED"},
		},
		Addresses: []SalesOrderAddressModel{
			{AddressType: addressTypeBilling, Firstname: sql.NullString{String: "Jane", Valid: true}, Street: sql.NullString{String: "1 Main St\nApt 4", Valid: true}},
			{AddressType: addressTypeShipping, City: sql.NullString{String: "Paris", Valid: true}},
		},
	}

	order := ToDomainOrder(model)
	require.NotNil(t, order)
	assert.Equal(t, "100000123", order.IncrementID)
	assert.Nil(t, order.CustomerID)
	assert.Equal(t, "a@b.com", *order.CustomerEmail)
	assert.True(t, order.DiscountAmount.Valid)
	assert.False(t, order.ShippingAmount.Valid)
	assert.Equal(t, created, *order.CreatedAt)
	assert.Equal(t, "https://shop.example.com/", order.Store.URL)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "1", order.Items[0].ItemID)
	assert.Nil(t, order.Items[0].ParentItemID)
	assert.Equal(t, "1", *order.Items[1].ParentItemID)
	assert.Len(t, order.VisibleItems(), 1)

	require.NotNil(t, order.BillingAddress)
	assert.Equal(t, []string{"1 Main St", "Apt 4"}, order.BillingAddress.Street)
	assert.Equal(t, "Jane", *order.BillingAddress.Firstname)
	assert.Nil(t, order.BillingAddress.Lastname)
	require.NotNil(t, order.ShippingAddress)
	assert.Empty(t, order.ShippingAddress.Street)
	assert.Equal(t, "Paris", *order.ShippingAddress.City)
}

func TestToDomainOrderWithoutOptionalData(t *testing.T) {
	order := ToDomainOrder(&SalesOrderModel{IncrementID: "1", IsVirtual: true})
	assert.Nil(t, order.CreatedAt)
	assert.Nil(t, order.BillingAddress)
	assert.Nil(t, order.ShippingAddress)
	assert.Empty(t, order.Items)
	assert.True(t, order.IsVirtual)

	assert.Nil(t, ToDomainOrder(nil))
}

func TestToDomainCustomer(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	customer := ToDomainCustomer(&CustomerModel{EntityID: 7, Firstname: "Jane", Lastname: "Doe", Email: "jane@example.com", CreatedAt: created})
	assert.Equal(t, "7", customer.ID)
	assert.Equal(t, "jane@example.com", customer.Email)
	assert.Equal(t, created, customer.CreatedAt)
	assert.Nil(t, ToDomainCustomer(nil))
}

func TestMySQLConfigDSN(t *testing.T) {
	dsn := MySQLConfig{Addr: "db:3306", User: "checkout", Password: "secret", Database: "shop"}.DSN()
	assert.True(t, strings.HasPrefix(dsn, "checkout:secret@tcp(db:3306)/shop?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
