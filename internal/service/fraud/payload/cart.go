package payload

import "fraudgate/internal/service/fraud/domain"

// CartBuilder 构建金额、商品行和折扣段。
type CartBuilder struct{}

func NewCartBuilder() *CartBuilder {
	return &CartBuilder{}
}

func (b *CartBuilder) TotalAmount(order *domain.Order) Totals {
	return Totals{OrderTotal: OrderTotal{GrossPrice: NewMoney(order.GrandTotal)}}
}

// CartItems 每个可见商品行输出一项，数量取整。
func (b *CartBuilder) CartItems(order *domain.Order) []CartItem {
	items := make([]CartItem, 0, len(order.Items))
	for _, item := range order.VisibleItems() {
		items = append(items, CartItem{
			Name:      item.Name,
			Qty:       item.QtyOrdered.IntPart(),
			Price:     NewMoney(item.Price),
			ProductID: item.ProductID,
			Sku:       item.Sku,
		})
	}
	return items
}

// TotalDiscount 在折扣为空或为零时返回 nil，整个段从文档中省略。
// 宿主以负数保存折扣，线上格式要求正数，所以取绝对值。
func (b *CartBuilder) TotalDiscount(order *domain.Order) *TotalDiscount {
	if !order.DiscountAmount.Valid || order.DiscountAmount.Decimal.IsZero() {
		return nil
	}
	return &TotalDiscount{
		CouponCodeUsed: order.CouponCode,
		DiscountAmount: LocalAmount{
			AmountLocalCurrency: order.DiscountAmount.Decimal.Abs().String(),
			Currency:            order.CurrencyCode,
		},
	}
}
