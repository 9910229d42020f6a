package infrastructure

import (
	"database/sql"
	"strconv"
	"strings"

	"fraudgate/internal/service/fraud/domain"
)

// ToDomainOrder 将数据库模型转换为领域模型
func ToDomainOrder(model *SalesOrderModel) *domain.Order {
	if model == nil {
		return nil
	}
	order := &domain.Order{
		IncrementID:    model.IncrementID,
		CustomerID:     nullString(model.CustomerID),
		CustomerEmail:  nullString(model.CustomerEmail),
		CurrencyCode:   model.CurrencyCode,
		GrandTotal:     model.GrandTotal,
		DiscountAmount: model.DiscountAmount,
		CouponCode:     nullString(model.CouponCode),
		ShippingMethod: nullString(model.ShippingMethod),
		ShippingAmount: model.ShippingAmount,
		IsVirtual:      model.IsVirtual,
		RemoteIP:       nullString(model.RemoteIP),
		Store:          domain.Store{Name: model.StoreName, URL: model.StoreURL},
	}
	if model.CreatedAt.Valid {
		created := model.CreatedAt.Time
		order.CreatedAt = &created
	}

	order.Items = make([]domain.Item, 0, len(model.Items))
	for _, item := range model.Items {
		order.Items = append(order.Items, toDomainItem(item))
	}

	for i := range model.Addresses {
		address := toDomainAddress(&model.Addresses[i])
		switch model.Addresses[i].AddressType {
		case addressTypeBilling:
			order.BillingAddress = address
		case addressTypeShipping:
			order.ShippingAddress = address
		}
	}
	return order
}

func toDomainItem(model SalesOrderItemModel) domain.Item {
	item := domain.Item{
		ItemID:     strconv.FormatUint(uint64(model.ItemID), 10),
		ProductID:  model.ProductID,
		Sku:        model.Sku,
		Name:       model.Name,
		Price:      model.Price,
		QtyOrdered: model.QtyOrdered,
	}
	if model.ParentItemID.Valid {
		parent := strconv.FormatInt(model.ParentItemID.Int64, 10)
		item.ParentItemID = &parent
	}
	return item
}

func toDomainAddress(model *SalesOrderAddressModel) *domain.Address {
	address := &domain.Address{
		Firstname:         nullString(model.Firstname),
		Lastname:          nullString(model.Lastname),
		Email:             nullString(model.Email),
		City:              nullString(model.City),
		Postcode:          nullString(model.Postcode),
		CountryID:         nullString(model.CountryID),
		Region:            nullString(model.Region),
		Company:           nullString(model.Company),
		Telephone:         nullString(model.Telephone),
		CustomerAddressID: nullString(model.CustomerAddressID),
	}
	if model.Street.Valid && model.Street.String != "" {
		address.Street = strings.Split(model.Street.String, "\n")
	}
	return address
}

// ToDomainCustomer 将数据库模型转换为领域模型
func ToDomainCustomer(model *CustomerModel) *domain.Customer {
	if model == nil {
		return nil
	}
	return &domain.Customer{
		ID:        strconv.FormatUint(uint64(model.EntityID), 10),
		Firstname: model.Firstname,
		Lastname:  model.Lastname,
		Email:     model.Email,
		CreatedAt: model.CreatedAt,
	}
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
