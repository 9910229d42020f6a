package port

import (
	"context"

	"fraudgate/internal/service/fraud/domain"
)

// CustomerSession 解析当前请求会话中已登录的顾客。
type CustomerSession interface {
	// CurrentCustomer 没有登录顾客时返回 (nil, nil)。
	CurrentCustomer(ctx context.Context) (*domain.Customer, error)
}

// CustomerRepository 按 ID 查找顾客账号。
type CustomerRepository interface {
	// GetByID 找不到时返回 domain.ErrCustomerNotFound。
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}
