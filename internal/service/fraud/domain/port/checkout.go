package port

import (
	"context"

	"fraudgate/internal/service/fraud/domain"
)

// OrderRepository 读取宿主平台的订单快照。
type OrderRepository interface {
	FindByIncrementID(ctx context.Context, incrementID string) (*domain.Order, error)
}

// PaymentRepository 是会话范围内的支付存储。
type PaymentRepository interface {
	FindByOrderNo(ctx context.Context, orderNo string) (*domain.Payment, error)
	Save(ctx context.Context, payment *domain.Payment) error
}

// PaymentGateway 是 PSP 的出站端口，执行真正的支付授权。
type PaymentGateway interface {
	Authorize(ctx context.Context, order *domain.Order, payment *domain.Payment) error
}

// DecisionEvent 是发布给下游 3DS 决策组件的消息。
type DecisionEvent struct {
	OrderNo                string   `json:"orderNo"`
	PaymentID              string   `json:"paymentId"`
	Decision               string   `json:"decision"`
	Recommendations        []string `json:"recommendations"`
	ThreeDsAuthOnExclusion string   `json:"threeDsAuthOnExclusion"`
	Blocked                bool     `json:"blocked"`
	ThreeDsManaged         bool     `json:"threeDsManaged"` // 支付方式已被某个 PSP 模块登记
	TraceID                string   `json:"traceId,omitempty"`
}

// DecisionPublisher 是决策事件的出站端口。
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, event DecisionEvent) error
}

// PaymentMethodProvider 由各 PSP 模块实现，登记由下游 3DS 决策组件接管的支付方式。
// 它不参与是否评分的判断。
type PaymentMethodProvider interface {
	PaymentMethods() []string
}
