// internal/service/fraud/payload/assembler.go
package payload

import (
	"context"
	"time"

	"fraudgate/internal/service/fraud/checkout"
	"fraudgate/internal/service/fraud/domain"
)

// Assembler 组合四个构建器的输出，生成完整的风控请求文档。
type Assembler struct {
	basicInfo *BasicInfoBuilder
	cart      *CartBuilder
	customer  *CustomerBuilder
	payment   *PaymentBuilder
	now       func() time.Time
}

func NewAssembler(basicInfo *BasicInfoBuilder, cart *CartBuilder, customer *CustomerBuilder, payment *PaymentBuilder) *Assembler {
	return &Assembler{
		basicInfo: basicInfo,
		cart:      cart,
		customer:  customer,
		payment:   payment,
		now:       time.Now,
	}
}

// WithClock 替换取当前时间的函数，订单没有创建时间时使用。
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// BuildFraudDetectionPayload 构建请求文档。任何构建器出错时不返回半成品文档。
func (a *Assembler) BuildFraudDetectionPayload(
	ctx context.Context,
	req domain.RequestContext,
	order *domain.Order,
	payment *domain.Payment,
	data *checkout.Data,
	stage domain.Stage,
) (*Document, error) {
	paymentData, err := a.payment.PaymentData(order, payment, data)
	if err != nil {
		return nil, err
	}

	return &Document{
		AuthorizationStep:     domain.AuthorizationStepPre,
		ConnectionInformation: a.basicInfo.ConnectionInformation(req, order, data),
		Order: OrderSection{
			OrderNo:      order.IncrementID,
			CreationDate: a.creationDate(order),
			Currency:     order.CurrencyCode,
			Customer: OrderCustomer{
				CustomerNo:     order.CustomerID,
				CustomerEmail:  order.CustomerEmail,
				BillingAddress: a.customer.BillingDetails(order),
			},
			Shipments:     shipments(order),
			Totals:        a.cart.TotalAmount(order),
			Items:         a.cart.CartItems(order),
			TotalDiscount: a.cart.TotalDiscount(order),
			Payments:      []PaymentData{paymentData},
		},
		PrimaryDeliveryDetails: a.customer.PrimaryDeliveryDetails(order),
		PrimaryRecipient:       a.customer.PrimaryRecipient(order),
		AccountOwner:           a.customer.AccountOwnerInfo(ctx, order),
		CustomerAccountData:    a.customer.CustomerAccountData(order),
		AdditionalIdentifiers:  a.basicInfo.AdditionalIdentifiers(order, stage),
	}, nil
}

// creationDate 不是每个生命周期阶段都已有持久化的创建时间，缺失时用当前时间。
func (a *Assembler) creationDate(order *domain.Order) int64 {
	if order.CreatedAt != nil && !order.CreatedAt.IsZero() {
		return order.CreatedAt.Unix()
	}
	return a.now().Unix()
}

// shipments 返回一个镜像收货地址的发货项，没有收货地址时返回空列表。
func shipments(order *domain.Order) []Shipment {
	address := order.ShippingAddress
	if address == nil {
		return []Shipment{}
	}

	var price *Money
	if order.ShippingAmount.Valid {
		m := NewMoney(order.ShippingAmount.Decimal)
		price = &m
	}

	return []Shipment{{
		ShippingMethod: order.ShippingMethod,
		ShippingPrice:  price,
		ShippingAddress: ShippingAddress{
			FirstName:   address.Firstname,
			LastName:    address.Lastname,
			Address1:    address.StreetLine(0),
			Address2:    address.StreetLine(1),
			City:        address.City,
			PostalCode:  address.Postcode,
			CountryCode: address.CountryID,
			Region:      deref(address.Region),
			Company:     deref(address.Company),
			Phone:       address.Telephone,
		},
	}}
}
