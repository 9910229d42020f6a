// internal/service/fraud/checkout/data.go
package checkout

import (
	"encoding/json"

	"fraudgate/internal/service/fraud/domain"
)

// 支付附加信息中由无头结账前端写入的键。
const (
	DefaultMetadataKey = "tapbuy"
	FraudTokenKey      = "forter_token"
	CollectedDataKey   = "collected_forter_data"
	CardBrandKey       = "cardBrand"
	CardBinKey         = "cardBin"
	CardLast4DigitsKey = "cardLast4Digits"
	CardHolderNameKey  = "cardHolderName"
)

// Data 保存一次结账调用内的风控上下文：设备指纹 token、前端采集的卡数据和 3DS 豁免策略。
// 每次调用重新构建，不跨请求共享。
type Data struct {
	metadataKey   string
	fraudToken    *string
	collectedData *string
	threeDsPolicy domain.ThreeDsAuthPolicy
}

// New 创建一个空的上下文。metadataKey 为空时使用 DefaultMetadataKey。
func New(metadataKey string) *Data {
	if metadataKey == "" {
		metadataKey = DefaultMetadataKey
	}
	return &Data{metadataKey: metadataKey, threeDsPolicy: domain.ThreeDsAuthAlways}
}

// FromPayment 从支付元数据构建上下文。
func FromPayment(metadataKey string, payment *domain.Payment) *Data {
	d := New(metadataKey)
	if payment != nil {
		d.Initialize(payment.AdditionalInformation)
	}
	return d
}

// Initialize 读取命名空间键并解析其 JSON。
// 解析失败或不是对象时保持空状态，永远不会返回错误。
func (d *Data) Initialize(metadata map[string]any) {
	raw, ok := metadata[d.metadataKey].(string)
	if !ok {
		return
	}

	var info map[string]any
	if err := json.Unmarshal([]byte(raw), &info); err != nil || info == nil {
		return
	}

	if token, ok := info[FraudTokenKey].(string); ok {
		d.fraudToken = &token
	}
	if collected, ok := info[CollectedDataKey].(string); ok {
		d.collectedData = &collected
	}
}

// FraudToken 返回设备指纹 token。
func (d *Data) FraudToken() (string, bool) {
	if d.fraudToken == nil {
		return "", false
	}
	return *d.fraudToken, true
}

// HasFraudToken 判断是否存在非空 token，为空等同于不存在。
func (d *Data) HasFraudToken() bool {
	token, ok := d.FraudToken()
	return ok && token != ""
}

// CollectedData 返回前端采集的卡数据 JSON 原文。
func (d *Data) CollectedData() (string, bool) {
	if d.collectedData == nil {
		return "", false
	}
	return *d.collectedData, true
}

func (d *Data) ThreeDsAuthPolicy() domain.ThreeDsAuthPolicy {
	return d.threeDsPolicy
}

func (d *Data) SetThreeDsAuthPolicy(policy domain.ThreeDsAuthPolicy) {
	d.threeDsPolicy = policy
}
