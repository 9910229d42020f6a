// internal/service/fraud/payload/document.go
package payload

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Document 是发送给评分服务的风控请求文档。
// 字段顺序即线上 JSON 的键顺序，评分服务按键解析，不能随意调整。
type Document struct {
	AuthorizationStep      string                        `json:"authorizationStep"`
	ConnectionInformation  Object[ConnectionInformation] `json:"connectionInformation"`
	Order                  OrderSection                  `json:"order"`
	PrimaryDeliveryDetails DeliveryDetails               `json:"primaryDeliveryDetails"`
	PrimaryRecipient       Object[Recipient]             `json:"primaryRecipient"`
	AccountOwner           AccountOwner                  `json:"accountOwner"`
	CustomerAccountData    CustomerAccountData           `json:"customerAccountData"`
	AdditionalIdentifiers  AdditionalIdentifiers         `json:"additionalIdentifiers"`
}

// Object 是一个可能为空的文档段，未设置时序列化为 {}。
type Object[T any] struct {
	value *T
}

// Some 用给定值创建一个非空段。
func Some[T any](v T) Object[T] {
	return Object[T]{value: &v}
}

// Get 返回段的值以及它是否非空。
func (o Object[T]) Get() (T, bool) {
	if o.value == nil {
		var zero T
		return zero, false
	}
	return *o.value, true
}

func (o Object[T]) IsEmpty() bool {
	return o.value == nil
}

func (o Object[T]) MarshalJSON() ([]byte, error) {
	if o.value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o.value)
}

// Money 以 JSON 数字输出金额。
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

type ConnectionInformation struct {
	CustomerIP               string  `json:"customerIP"`
	UserAgent                string  `json:"userAgent"`
	FraudDetectionCookie     *string `json:"fraudDetectionCookie"`
	MerchantDeviceIdentifier *string `json:"merchantDeviceIdentifier"` // 保留字段，始终为 null
}

type OrderSection struct {
	OrderNo       string         `json:"orderNo"`
	CreationDate  int64          `json:"creationDate"`
	Currency      string         `json:"currency"`
	Customer      OrderCustomer  `json:"customer"`
	Shipments     []Shipment     `json:"shipments"`
	Totals        Totals         `json:"totals"`
	Items         []CartItem     `json:"items"`
	TotalDiscount *TotalDiscount `json:"totalDiscount,omitempty"`
	Payments      []PaymentData  `json:"payments"`
}

type OrderCustomer struct {
	CustomerNo     *string                `json:"customerNo"`
	CustomerEmail  *string                `json:"customerEmail"`
	BillingAddress Object[BillingDetails] `json:"billingAddress"`
}

type Shipment struct {
	ShippingMethod  *string         `json:"shippingMethod"`
	ShippingPrice   *Money          `json:"shippingPrice"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

type ShippingAddress struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Address1    string  `json:"address1"`
	Address2    string  `json:"address2"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postalCode"`
	CountryCode *string `json:"countryCode"`
	Region      string  `json:"region"`
	Company     string  `json:"company"`
	Phone       *string `json:"phone"`
}

type Totals struct {
	OrderTotal OrderTotal `json:"orderTotal"`
}

type OrderTotal struct {
	GrossPrice Money `json:"grossPrice"`
}

type CartItem struct {
	Name      string `json:"name"`
	Qty       int64  `json:"qty"`
	Price     Money  `json:"price"`
	ProductID string `json:"productId"`
	Sku       string `json:"sku"`
}

type TotalDiscount struct {
	CouponCodeUsed *string     `json:"couponCodeUsed"`
	DiscountAmount LocalAmount `json:"discountAmount"`
}

// LocalAmount 是以字符串表示的本币金额。
type LocalAmount struct {
	AmountLocalCurrency string `json:"amountLocalCurrency"`
	Currency            string `json:"currency"`
}

type PaymentData struct {
	PaymentMethod string `json:"paymentMethod"`
	Amount        Money  `json:"amount"`
	Card          Card   `json:"card"`
}

// Card 的字段原样拷贝自前端采集的数据，缺失的字段直接省略。
type Card struct {
	CardType       json.RawMessage `json:"cardType,omitempty"`
	CardBin        json.RawMessage `json:"cardBin,omitempty"`
	CardLastDigits json.RawMessage `json:"cardLastDigits,omitempty"`
	CardHolder     json.RawMessage `json:"cardHolder,omitempty"`
}

type DeliveryDetails struct {
	DeliveryType   string       `json:"deliveryType"`
	DeliveryMethod string       `json:"deliveryMethod"`
	DeliveryPrice  *LocalAmount `json:"deliveryPrice,omitempty"`
}

type Recipient struct {
	PersonalDetails PersonalDetails  `json:"personalDetails"`
	Address         RecipientAddress `json:"address"`
	Phone           []Phone          `json:"phone,omitempty"`
}

type PersonalDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type RecipientAddress struct {
	Address1  string    `json:"address1"`
	Address2  string    `json:"address2"`
	City      string    `json:"city"`
	Zip       string    `json:"zip"`
	Country   string    `json:"country"`
	Region    string    `json:"region"`
	Company   string    `json:"company"`
	SavedData SavedData `json:"savedData"`
}

type SavedData struct {
	UsedSavedData   bool `json:"usedSavedData"`
	ChoseToSaveData bool `json:"choseToSaveData"`
}

type Phone struct {
	Phone string `json:"phone"`
}

// AccountOwner 对游客只包含账单地址上的姓名和邮箱（可能为 null），
// 对注册顾客额外包含 accountId 和 created。
type AccountOwner struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	AccountID *string `json:"accountId,omitempty"`
	Created   *int64  `json:"created,omitempty"`
}

type CustomerAccountData struct {
	CustomerEngagement CustomerEngagement `json:"customerEngagement"`
}

type CustomerEngagement struct {
	Wishlist Wishlist `json:"wishlist"`
}

type Wishlist struct {
	InUse           bool `json:"inUse"`
	ItemInListCount int  `json:"itemInListCount"`
}

// BillingDetails 是扁平的账单地址，所有字段都退化为空串而不是 null。
type BillingDetails struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`
	CountryCode string `json:"countryCode"`
	Region      string `json:"region"`
	Company     string `json:"company"`
	Phone       string `json:"phone"`
}

type AdditionalIdentifiers struct {
	Merchant                   Merchant                   `json:"merchant"`
	MagentoAdditionalOrderData MagentoAdditionalOrderData `json:"magentoAdditionalOrderData"`
}

type Merchant struct {
	MerchantDomain string `json:"merchantDomain"`
	MerchantName   string `json:"merchantName"`
}

type MagentoAdditionalOrderData struct {
	MagentoOrderStage string `json:"magentoOrderStage"`
}
