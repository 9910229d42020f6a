package pipeline

import (
	"go.opentelemetry.io/otel/attribute"

	"fraudgate/internal/service/fraud/checkout"
)

// DefaultCallerHeader 标识来自无头结账前端的请求。
const DefaultCallerHeader = "X-Tapbuy-Call"

// CallerGateHandler 只放行带有无头结账标记头的请求。
type CallerGateHandler struct {
	NextHandler
	Header string
}

func (h *CallerGateHandler) Handle(dc *DecisionContext) error {
	header := h.Header
	if header == "" {
		header = DefaultCallerHeader
	}
	if dc.Request.Header(header) == "" {
		dc.Outcome = OutcomeGatedOut
		return nil
	}
	return h.executeNext(dc)
}

// ContextGateHandler 从支付元数据初始化风控上下文，没有 token 时结束流程。
type ContextGateHandler struct {
	NextHandler
	MetadataKey string
}

func (h *ContextGateHandler) Handle(dc *DecisionContext) error {
	_, span := dc.Tracer.Start(dc.Ctx, "fraud.ContextGate")
	defer span.End()

	dc.Data = checkout.FromPayment(h.MetadataKey, dc.Payment)
	hasToken := dc.Data.HasFraudToken()
	span.SetAttributes(attribute.Bool("fraud.token_present", hasToken))
	if !hasToken {
		dc.Outcome = OutcomeGatedOut
		return nil
	}
	return h.executeNext(dc)
}
