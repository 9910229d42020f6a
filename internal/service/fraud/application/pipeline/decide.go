package pipeline

import (
	"go.opentelemetry.io/otel/attribute"

	"fraudgate/internal/pkg/logger"
	"fraudgate/internal/service/fraud/domain"
)

// PersistHandler 把决策写回支付元数据和风控上下文，供下游 3DS 决策点读取。
type PersistHandler struct {
	NextHandler
}

func (h *PersistHandler) Handle(dc *DecisionContext) error {
	dc.Payment.RecordDecision(*dc.Decision)
	dc.Data.SetThreeDsAuthPolicy(dc.Decision.ThreeDsAuthOnExclusion)
	return h.executeNext(dc)
}

// DecideHandler 执行拒绝策略：只有没有 3DS 挑战建议的 decline 才会阻断支付。
type DecideHandler struct {
	NextHandler
}

func (h *DecideHandler) Handle(dc *DecisionContext) error {
	_, span := dc.Tracer.Start(dc.Ctx, "fraud.Decide")
	defer span.End()

	decision := dc.Decision
	switch {
	case !decision.IsDecline():
		dc.Outcome = OutcomeApproved
	case decision.ChallengeRecommended():
		dc.Outcome = OutcomeChallengeDeferred
	default:
		dc.Outcome = OutcomeDeclined
	}
	span.SetAttributes(
		attribute.String("fraud.decision", decision.Decision),
		attribute.String("fraud.outcome", string(dc.Outcome)),
	)

	if dc.Outcome == OutcomeDeclined {
		logger.Ctx(dc.Ctx).Warn().
			Str("orderId", dc.orderNo()).
			Strs("recommendations", decision.Recommendations).
			Msg("fraud detection declined order")
		return domain.NewPaymentDeclinedError()
	}
	return h.executeNext(dc)
}
