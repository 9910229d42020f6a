// internal/service/fraud/payload/customer.go
package payload

import (
	"context"

	"fraudgate/internal/pkg/logger"
	"fraudgate/internal/service/fraud/domain"
	"fraudgate/internal/service/fraud/domain/port"
)

const (
	deliveryTypePhysical = "PHYSICAL"
	deliveryTypeDigital  = "DIGITAL"
)

// CustomerBuilder 构建配送、收件人、账号所有者和账单段。
type CustomerBuilder struct {
	session   port.CustomerSession
	customers port.CustomerRepository
}

// NewCustomerBuilder 两个依赖都可以为 nil，此时所有顾客都按游客处理。
func NewCustomerBuilder(session port.CustomerSession, customers port.CustomerRepository) *CustomerBuilder {
	return &CustomerBuilder{session: session, customers: customers}
}

// PrimaryDeliveryDetails 对虚拟订单只返回 DIGITAL，不带价格。
func (b *CustomerBuilder) PrimaryDeliveryDetails(order *domain.Order) DeliveryDetails {
	if order.IsVirtual {
		return DeliveryDetails{
			DeliveryType:   deliveryTypeDigital,
			DeliveryMethod: deliveryTypeDigital,
		}
	}

	shippingAmount := ""
	if order.ShippingAmount.Valid {
		shippingAmount = order.ShippingAmount.Decimal.String()
	}
	return DeliveryDetails{
		DeliveryType:   deliveryTypePhysical,
		DeliveryMethod: deref(order.ShippingMethod),
		DeliveryPrice: &LocalAmount{
			AmountLocalCurrency: shippingAmount,
			Currency:            order.CurrencyCode,
		},
	}
}

// PrimaryRecipient 取自收货地址；数字订单没有收货地址，返回空段。
func (b *CustomerBuilder) PrimaryRecipient(order *domain.Order) Object[Recipient] {
	address := order.ShippingAddress
	if address == nil {
		return Object[Recipient]{}
	}

	recipient := Recipient{
		PersonalDetails: PersonalDetails{
			FirstName: deref(address.Firstname),
			LastName:  deref(address.Lastname),
			Email:     coalesce(address.Email, order.CustomerEmail),
		},
		Address: RecipientAddress{
			Address1: address.StreetLine(0),
			Address2: address.StreetLine(1),
			City:     deref(address.City),
			Zip:      deref(address.Postcode),
			Country:  deref(address.CountryID),
			Region:   deref(address.Region),
			Company:  deref(address.Company),
			SavedData: SavedData{
				UsedSavedData:   address.CustomerAddressID != nil,
				ChoseToSaveData: false,
			},
		},
	}
	if address.Telephone != nil {
		recipient.Phone = []Phone{{Phone: *address.Telephone}}
	}
	return Some(recipient)
}

// AccountOwnerInfo 先从会话取顾客，再按订单上的顾客 ID 查仓储（会话可能已过期），
// 都取不到时按游客处理，使用账单地址上的字段。
func (b *CustomerBuilder) AccountOwnerInfo(ctx context.Context, order *domain.Order) AccountOwner {
	customer := b.resolveCustomer(ctx, order)
	if customer == nil {
		billing := order.BillingAddress
		if billing == nil {
			return AccountOwner{}
		}
		return AccountOwner{
			FirstName: billing.Firstname,
			LastName:  billing.Lastname,
			Email:     billing.Email,
		}
	}

	owner := AccountOwner{
		FirstName: &customer.Firstname,
		LastName:  &customer.Lastname,
		Email:     &customer.Email,
		AccountID: &customer.ID,
	}
	if !customer.CreatedAt.IsZero() {
		created := customer.CreatedAt.Unix()
		owner.Created = &created
	}
	return owner
}

// CustomerAccountData 目前是固定的占位段，后续可以接入更多互动信号。
func (b *CustomerBuilder) CustomerAccountData(order *domain.Order) CustomerAccountData {
	return CustomerAccountData{
		CustomerEngagement: CustomerEngagement{
			Wishlist: Wishlist{InUse: false, ItemInListCount: 0},
		},
	}
}

// BillingDetails 返回扁平的账单地址；没有账单地址时返回空段。
func (b *CustomerBuilder) BillingDetails(order *domain.Order) Object[BillingDetails] {
	billing := order.BillingAddress
	if billing == nil {
		return Object[BillingDetails]{}
	}
	return Some(BillingDetails{
		FirstName:   deref(billing.Firstname),
		LastName:    deref(billing.Lastname),
		Email:       coalesce(billing.Email, order.CustomerEmail),
		Address1:    billing.StreetLine(0),
		Address2:    billing.StreetLine(1),
		City:        deref(billing.City),
		PostalCode:  deref(billing.Postcode),
		CountryCode: deref(billing.CountryID),
		Region:      deref(billing.Region),
		Company:     deref(billing.Company),
		Phone:       deref(billing.Telephone),
	})
}

func (b *CustomerBuilder) resolveCustomer(ctx context.Context, order *domain.Order) *domain.Customer {
	if b.session != nil {
		customer, err := b.session.CurrentCustomer(ctx)
		if err != nil {
			logger.Ctx(ctx).Debug().Err(err).Str("orderId", order.IncrementID).Msg("customer session lookup failed")
		} else if customer != nil {
			return customer
		}
	}

	if b.customers == nil || order.CustomerID == nil {
		return nil
	}
	customer, err := b.customers.GetByID(ctx, *order.CustomerID)
	if err != nil {
		logger.Ctx(ctx).Debug().Err(err).Str("orderId", order.IncrementID).Msg("customer repository lookup failed, treating as guest")
		return nil
	}
	return customer
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// coalesce 返回第一个非 nil 的值，都为 nil 时返回空串。
func coalesce(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}
