// internal/service/fraud/domain/decision.go
package domain

import (
	"slices"
	"strings"
)

// ThreeDsAuthPolicy 决定当评分服务建议豁免时是否仍执行 3DS 认证。
type ThreeDsAuthPolicy string

const (
	ThreeDsAuthAlways ThreeDsAuthPolicy = "always"
	ThreeDsAuthNever  ThreeDsAuthPolicy = "never"
)

// 评分服务返回的决策（已小写）。
const (
	DecisionApprove = "approve"
	DecisionDecline = "decline"
)

// RecommendationChallenge3DS 表示评分服务建议走 3DS 挑战而不是直接拒绝。
const RecommendationChallenge3DS = "VERIFICATION_REQUIRED_3DS_CHALLENGE"

// Stage 标识风控请求在结账生命周期中的发起点。
type Stage string

const (
	StageBeforePayment        Stage = "BEFORE_PAYMENT_ACTION"
	StagePaymentActionFailure Stage = "PAYMENT_ACTION_FAILURE"
)

// AuthorizationStepPre 是请求文档中固定的授权阶段。
const AuthorizationStepPre = "PRE_AUTHORIZATION"

// Decision 是从评分服务响应中映射出的值对象。
type Decision struct {
	Status                 *string
	Decision               string
	Recommendations        []string
	ThreeDsAuthOnExclusion ThreeDsAuthPolicy
}

// NewDecision 规范化原始响应字段：决策小写，空推荐折叠为空列表，策略默认 always。
func NewDecision(status *string, decision, recommendation, threeDs string) Decision {
	recommendations := []string{}
	if recommendation != "" {
		recommendations = append(recommendations, recommendation)
	}
	policy := ThreeDsAuthPolicy(threeDs)
	if threeDs == "" {
		policy = ThreeDsAuthAlways
	}
	return Decision{
		Status:                 status,
		Decision:               strings.ToLower(decision),
		Recommendations:        recommendations,
		ThreeDsAuthOnExclusion: policy,
	}
}

// IsDecline 判断决策是否为拒绝。
func (d Decision) IsDecline() bool {
	return d.Decision == DecisionDecline
}

// ChallengeRecommended 判断推荐列表中是否包含 3DS 挑战。
func (d Decision) ChallengeRecommended() bool {
	return slices.Contains(d.Recommendations, RecommendationChallenge3DS)
}
