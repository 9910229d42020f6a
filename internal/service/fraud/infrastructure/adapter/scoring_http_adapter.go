package adapter

import (
	"context"
	"time"

	"fraudgate/internal/pkg/httpclient"
)

// HeaderAPIKey 是调用评分服务时携带的鉴权头。
const HeaderAPIKey = "X-Api-Key"

// ScoringHTTPAdapter 是 port.ScoringService 接口的HTTP实现。超时在这里设置，决策流程本身不设超时。
type ScoringHTTPAdapter struct {
	client  *httpclient.Client
	service string
	apiKey  string
	timeout time.Duration
}

func NewScoringHTTPAdapter(client *httpclient.Client, service, apiKey string, timeout time.Duration) *ScoringHTTPAdapter {
	return &ScoringHTTPAdapter{client: client, service: service, apiKey: apiKey, timeout: timeout}
}

func (a *ScoringHTTPAdapter) SendRequest(ctx context.Context, path string, body any) ([]byte, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var headers map[string]string
	if a.apiKey != "" {
		headers = map[string]string{HeaderAPIKey: a.apiKey}
	}
	return a.client.PostJSON(ctx, a.service, path, body, headers)
}
