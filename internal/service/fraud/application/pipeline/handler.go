package pipeline

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"fraudgate/internal/service/fraud/checkout"
	"fraudgate/internal/service/fraud/domain"
	"fraudgate/internal/service/fraud/payload"
)

// Outcome 是一次流程运行的终态。
type Outcome string

const (
	OutcomeGatedOut          Outcome = "gated_out"
	OutcomeApproved          Outcome = "approved"
	OutcomeChallengeDeferred Outcome = "challenge_deferred"
	OutcomeDeclined          Outcome = "declined"
	OutcomeReported          Outcome = "reported"
	OutcomeFailedOpen        Outcome = "failed_open"
)

// DecisionContext 在处理链中传递一次运行的全部状态，每次运行新建一个，不跨请求复用。
type DecisionContext struct {
	Ctx    context.Context
	Tracer trace.Tracer
	RunID  string

	Stage   domain.Stage
	Request domain.RequestContext
	Order   *domain.Order
	Payment *domain.Payment

	// 以下字段由各处理器依次填充
	Data     *checkout.Data
	Document *payload.Document
	Raw      []byte
	Response *ScoringResponse
	Decision *domain.Decision
	Outcome  Outcome
}

func (c *DecisionContext) orderNo() string {
	if c.Order == nil {
		return ""
	}
	return c.Order.IncrementID
}

type Handler interface {
	SetNext(handler Handler) Handler
	Handle(dc *DecisionContext) error
}

type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(dc *DecisionContext) error {
	if h.next != nil {
		return h.next.Handle(dc)
	}
	return nil
}
