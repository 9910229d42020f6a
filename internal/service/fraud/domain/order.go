// internal/service/fraud/domain/order.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 是宿主电商平台订单的只读快照。
// 可为空的字段使用指针或 NullDecimal，构建器据此决定输出空串、null 还是省略。
type Order struct {
	IncrementID    string
	CustomerID     *string
	CustomerEmail  *string
	CurrencyCode   string
	GrandTotal     decimal.Decimal
	DiscountAmount decimal.NullDecimal // 宿主以负数保存折扣
	CouponCode     *string
	ShippingMethod *string
	ShippingAmount decimal.NullDecimal
	IsVirtual      bool
	RemoteIP       *string
	CreatedAt      *time.Time

	Items           []Item
	BillingAddress  *Address
	ShippingAddress *Address
	Store           Store
}

// Item 是订单行。ParentItemID 非空表示它是 bundle/configurable 的子行。
type Item struct {
	ItemID       string
	ParentItemID *string
	ProductID    string
	Sku          string
	Name         string
	Price        decimal.Decimal
	QtyOrdered   decimal.Decimal
}

// Address 是订单上的账单或收货地址。
type Address struct {
	Firstname         *string
	Lastname          *string
	Email             *string
	Street            []string
	City              *string
	Postcode          *string
	CountryID         *string
	Region            *string
	Company           *string
	Telephone         *string
	CustomerAddressID *string
}

// Store 描述下单的店铺，用于商户标识。
type Store struct {
	Name string
	URL  string
}

// VisibleItems 只返回父行，隐藏 bundle/configurable 的子行。
func (o *Order) VisibleItems() []Item {
	visible := make([]Item, 0, len(o.Items))
	for _, item := range o.Items {
		if item.ParentItemID == nil {
			visible = append(visible, item)
		}
	}
	return visible
}

// StreetLine 返回第 i 行街道地址，不存在时返回空串。
func (a *Address) StreetLine(i int) string {
	if a == nil || i < 0 || i >= len(a.Street) {
		return ""
	}
	return a.Street[i]
}
