package pipeline

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"fraudgate/internal/pkg/metrics"
	"fraudgate/internal/service/fraud/domain/port"
	"fraudgate/internal/service/fraud/payload"
)

// BuildHandler 组装风控请求文档。
type BuildHandler struct {
	NextHandler
	Assembler *payload.Assembler
}

func (h *BuildHandler) Handle(dc *DecisionContext) error {
	ctx, span := dc.Tracer.Start(dc.Ctx, "fraud.Build")
	defer span.End()
	span.SetAttributes(attribute.String("fraud.stage", string(dc.Stage)))

	doc, err := h.Assembler.BuildFraudDetectionPayload(ctx, dc.Request, dc.Order, dc.Payment, dc.Data, dc.Stage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payload build failed")
		return err
	}
	dc.Document = doc
	return h.executeNext(dc)
}

// SubmitHandler 把文档发送到评分服务，传输错误原样向上返回。
type SubmitHandler struct {
	NextHandler
	Scoring port.ScoringService
}

func (h *SubmitHandler) Handle(dc *DecisionContext) error {
	ctx, span := dc.Tracer.Start(dc.Ctx, "fraud.Submit")
	defer span.End()

	started := time.Now()
	raw, err := h.Scoring.SendRequest(ctx, port.FraudDetectionPath, dc.Document)
	metrics.ObserveScoring(string(dc.Stage), started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring request failed")
		return err
	}
	dc.Raw = raw
	return h.executeNext(dc)
}

// ReportedHandler 是失败上报链的终点。
type ReportedHandler struct {
	NextHandler
}

func (h *ReportedHandler) Handle(dc *DecisionContext) error {
	dc.Outcome = OutcomeReported
	return h.executeNext(dc)
}
