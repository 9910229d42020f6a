// internal/service/fraud/domain/payment.go
package domain

import "github.com/shopspring/decimal"

// 写回支付附加信息的键，下游 3DS 决策点读取它们。
const (
	PreDecisionKey            = "pre_decision"
	PreRecommendationsKey     = "pre_recommendations"
	ThreeDsAuthOnExclusionKey = "three_ds_auth_on_exclusion"
)

// Payment 是进行中的支付。AdditionalInformation 对应宿主的支付元数据，
// 由无头结账前端写入，并由决策流程写回决策结果。
type Payment struct {
	ID                    string
	OrderNo               string
	Method                string
	AmountOrdered         decimal.NullDecimal
	AdditionalInformation map[string]any
}

// SetAdditionalInformation 写入一个元数据键。
func (p *Payment) SetAdditionalInformation(key string, value any) {
	if p.AdditionalInformation == nil {
		p.AdditionalInformation = make(map[string]any)
	}
	p.AdditionalInformation[key] = value
}

// AdditionalInformationValue 读取一个元数据键。
func (p *Payment) AdditionalInformationValue(key string) (any, bool) {
	if p == nil || p.AdditionalInformation == nil {
		return nil, false
	}
	v, ok := p.AdditionalInformation[key]
	return v, ok
}

// RecordDecision 把决策、推荐列表和 3DS 策略写回支付元数据。
func (p *Payment) RecordDecision(d Decision) {
	recommendations := d.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	p.SetAdditionalInformation(PreDecisionKey, d.Decision)
	p.SetAdditionalInformation(PreRecommendationsKey, recommendations)
	p.SetAdditionalInformation(ThreeDsAuthOnExclusionKey, string(d.ThreeDsAuthOnExclusion))
}
