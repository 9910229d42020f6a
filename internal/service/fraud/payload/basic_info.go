// internal/service/fraud/payload/basic_info.go
package payload

import (
	"strings"
	"unicode/utf8"

	"fraudgate/internal/service/fraud/checkout"
	"fraudgate/internal/service/fraud/domain"
)

const (
	maxHeaderLength = 4000
	// CyberSource 是服务端对服务端的回调方，不是真实浏览器。
	serverToServerAgent = "CyberSource"
)

// BasicInfoBuilder 构建连接信息和附加标识段。
type BasicInfoBuilder struct{}

func NewBasicInfoBuilder() *BasicInfoBuilder {
	return &BasicInfoBuilder{}
}

// ConnectionInformation 返回顾客 IP、User-Agent 和设备指纹。
// User-Agent 含 CyberSource 时整个段为空。
func (b *BasicInfoBuilder) ConnectionInformation(req domain.RequestContext, order *domain.Order, data *checkout.Data) Object[ConnectionInformation] {
	userAgent := userAgent(req)
	if strings.Contains(userAgent, serverToServerAgent) {
		return Object[ConnectionInformation]{}
	}

	var cookie *string
	if token, ok := data.FraudToken(); ok {
		cookie = &token
	}

	return Some(ConnectionInformation{
		CustomerIP:               remoteIP(req, order),
		UserAgent:                userAgent,
		FraudDetectionCookie:     cookie,
		MerchantDeviceIdentifier: nil,
	})
}

// AdditionalIdentifiers 返回商户信息和调用方给出的生命周期阶段。
func (b *BasicInfoBuilder) AdditionalIdentifiers(order *domain.Order, stage domain.Stage) AdditionalIdentifiers {
	return AdditionalIdentifiers{
		Merchant: Merchant{
			MerchantDomain: order.Store.URL,
			MerchantName:   order.Store.Name,
		},
		MagentoAdditionalOrderData: MagentoAdditionalOrderData{
			MagentoOrderStage: string(stage),
		},
	}
}

// userAgent 只接受规范写法或全小写的请求头键。
func userAgent(req domain.RequestContext) string {
	var value string
	if v, ok := req.Headers["User-Agent"]; ok && len(v) > 0 {
		value = v[0]
	} else if v, ok := req.Headers["user-agent"]; ok && len(v) > 0 {
		value = v[0]
	}
	return truncate(value, maxHeaderLength)
}

// truncate 按字节截断，并退回到最近的字符边界。
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func remoteIP(req domain.RequestContext, order *domain.Order) string {
	if order.RemoteIP != nil {
		return *order.RemoteIP
	}
	if req.RemoteAddr != "" {
		return req.RemoteAddr
	}
	return ""
}
