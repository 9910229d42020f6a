package infrastructure

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const (
	addressTypeBilling  = "billing"
	addressTypeShipping = "shipping"
)

// SalesOrderModel 对应数据库中的 sales_order 表
type SalesOrderModel struct {
	EntityID       uint   `gorm:"primaryKey"`
	IncrementID    string `gorm:"uniqueIndex;size:32"`
	CustomerID     sql.NullString
	CustomerEmail  sql.NullString
	CurrencyCode   string              `gorm:"column:order_currency_code;size:3"`
	GrandTotal     decimal.Decimal     `gorm:"type:decimal(20,4)"`
	DiscountAmount decimal.NullDecimal `gorm:"type:decimal(20,4)"`
	CouponCode     sql.NullString
	ShippingMethod sql.NullString
	ShippingAmount decimal.NullDecimal `gorm:"type:decimal(20,4)"`
	IsVirtual      bool
	RemoteIP       sql.NullString `gorm:"column:remote_ip"`
	StoreName      string
	StoreURL       string `gorm:"column:store_url"`
	CreatedAt      sql.NullTime

	Items     []SalesOrderItemModel    `gorm:"foreignKey:OrderID;references:EntityID"`
	Addresses []SalesOrderAddressModel `gorm:"foreignKey:ParentID;references:EntityID"`
}

// TableName 指定 GORM 应该使用的表名
func (SalesOrderModel) TableName() string {
	return "sales_order"
}

// SalesOrderItemModel 对应 sales_order_item 表
type SalesOrderItemModel struct {
	ItemID       uint `gorm:"primaryKey"`
	OrderID      uint `gorm:"index"`
	ParentItemID sql.NullInt64
	ProductID    string
	Sku          string
	Name         string
	Price        decimal.Decimal `gorm:"type:decimal(20,4)"`
	QtyOrdered   decimal.Decimal `gorm:"type:decimal(12,4)"`
}

func (SalesOrderItemModel) TableName() string {
	return "sales_order_item"
}

// SalesOrderAddressModel 对应 sales_order_address 表，Street 多行以换行分隔。
type SalesOrderAddressModel struct {
	EntityID          uint `gorm:"primaryKey"`
	ParentID          uint `gorm:"index"`
	AddressType       string
	Firstname         sql.NullString
	Lastname          sql.NullString
	Email             sql.NullString
	Street            sql.NullString `gorm:"type:text"`
	City              sql.NullString
	Postcode          sql.NullString
	CountryID         sql.NullString
	Region            sql.NullString
	Company           sql.NullString
	Telephone         sql.NullString
	CustomerAddressID sql.NullString
}

func (SalesOrderAddressModel) TableName() string {
	return "sales_order_address"
}

// CustomerModel 对应 customer_entity 表
type CustomerModel struct {
	EntityID  uint `gorm:"primaryKey"`
	Firstname string
	Lastname  string
	Email     string `gorm:"index"`
	CreatedAt time.Time
}

func (CustomerModel) TableName() string {
	return "customer_entity"
}
