// internal/service/fraud/domain/errors.go
package domain

import "errors"

// DefaultDeclineMessage 是拒单时展示给顾客的固定文案，不泄露风控细节。
const DefaultDeclineMessage = "The order can't be placed."

var (
	// ErrInvalidCollectedData 表示前端采集的卡数据不是合法 JSON。
	ErrInvalidCollectedData = errors.New("invalid collected card data")
	// ErrInvalidResponse 表示评分服务响应结构不符合预期。
	ErrInvalidResponse = errors.New("invalid fraud detection response")
	// ErrOrderNotFound 表示仓储中找不到订单。
	ErrOrderNotFound = errors.New("order not found")
	// ErrPaymentNotFound 表示会话存储中找不到支付。
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrCustomerNotFound 表示仓储中找不到顾客。
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrAuthorizationRefused 表示 PSP 拒绝了授权，与风控拒单无关。
	ErrAuthorizationRefused = errors.New("payment authorization refused")
)

// PaymentDeclinedError 是唯一允许阻断结账的错误。
type PaymentDeclinedError struct {
	Message string
}

// NewPaymentDeclinedError 使用固定文案创建拒单错误。
func NewPaymentDeclinedError() *PaymentDeclinedError {
	return &PaymentDeclinedError{Message: DefaultDeclineMessage}
}

func (e *PaymentDeclinedError) Error() string {
	return e.Message
}

// IsPaymentDeclined 判断错误链中是否有拒单错误。
func IsPaymentDeclined(err error) bool {
	var declined *PaymentDeclinedError
	return errors.As(err, &declined)
}
