package port

import "context"

// FraudDetectionPath 是评分服务接收风控请求的路径。
const FraudDetectionPath = "/fraud/detection"

// ScoringService 是外部评分服务的出站端口。
// 鉴权、重试、超时都由实现负责，决策流程不关心。
type ScoringService interface {
	// SendRequest 以 JSON POST 发送 body，返回原始响应体。
	SendRequest(ctx context.Context, path string, body any) ([]byte, error)
}
