// internal/service/fraud/application/guard.go
package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fraudgate/internal/pkg/logger"
	"fraudgate/internal/pkg/metrics"
	"fraudgate/internal/service/fraud/application/pipeline"
	"fraudgate/internal/service/fraud/domain"
)

// Guard 是宿主结账流程调用的两个钩子：支付前决策和支付失败上报。
// 除了明确的拒单，任何错误都不会阻断结账。
type Guard struct {
	preAuth pipeline.Handler
	failure pipeline.Handler
	tracer  trace.Tracer
}

func NewGuard(opts pipeline.Options, tracer trace.Tracer) *Guard {
	if tracer == nil {
		tracer = otel.Tracer("fraud-guard")
	}
	return &Guard{
		preAuth: pipeline.NewPreAuthorizationChain(opts),
		failure: pipeline.NewFailureReportChain(opts),
		tracer:  tracer,
	}
}

// BeforePaymentAction 运行支付前决策链。只有在决策为拒绝且没有 3DS 挑战建议时返回
// *domain.PaymentDeclinedError，其他错误记录日志后放行。
func (g *Guard) BeforePaymentAction(ctx context.Context, req domain.RequestContext, order *domain.Order, payment *domain.Payment) (outcome pipeline.Outcome, err error) {
	ctx, span := g.tracer.Start(ctx, "fraud.BeforePaymentAction")
	defer span.End()

	if order == nil || payment == nil {
		return pipeline.OutcomeGatedOut, nil
	}

	dc := g.newDecisionContext(ctx, domain.StageBeforePayment, req, order, payment)
	defer func() {
		if r := recover(); r != nil {
			g.failOpen(dc, pipeline.ErrorKindPanic, fmt.Errorf("panic in fraud pipeline: %v", r))
			outcome, err = pipeline.OutcomeFailedOpen, nil
		}
		span.SetAttributes(attribute.String("fraud.outcome", string(outcome)))
		metrics.RecordDecision(string(outcome))
	}()

	if err := g.preAuth.Handle(dc); err != nil {
		if domain.IsPaymentDeclined(err) {
			span.SetStatus(codes.Error, "payment declined")
			return pipeline.OutcomeDeclined, err
		}
		g.failOpen(dc, pipeline.ErrorKind(err), err)
		return pipeline.OutcomeFailedOpen, nil
	}
	return dc.Outcome, nil
}

// AroundPlace 执行 place，失败时向评分服务上报，始终原样返回 place 的错误。
func (g *Guard) AroundPlace(ctx context.Context, req domain.RequestContext, order *domain.Order, payment *domain.Payment, place func(ctx context.Context) error) error {
	err := place(ctx)
	if err != nil {
		g.ReportPlacementFailure(ctx, req, order, payment, err)
	}
	return err
}

// ReportPlacementFailure 以 PAYMENT_ACTION_FAILURE 阶段重新组装并提交请求，不读取响应。
// 拒单错误不上报；上报本身的任何错误或 panic 都只记录日志。
func (g *Guard) ReportPlacementFailure(ctx context.Context, req domain.RequestContext, order *domain.Order, payment *domain.Payment, cause error) {
	if domain.IsPaymentDeclined(cause) || order == nil || payment == nil {
		metrics.RecordFailureReport("skipped")
		return
	}

	ctx, span := g.tracer.Start(ctx, "fraud.ReportPlacementFailure")
	defer span.End()

	dc := g.newDecisionContext(ctx, domain.StagePaymentActionFailure, req, order, payment)
	defer func() {
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, "panic")
			metrics.RecordFailureReport("error")
			logger.Ctx(dc.Ctx).Error().
				Str("orderId", order.IncrementID).
				Interface("panic", r).
				Msg("failed to send payment failure notification")
		}
	}()

	if err := g.failure.Handle(dc); err != nil {
		span.RecordError(err)
		metrics.RecordFailureReport("error")
		logger.Ctx(dc.Ctx).Error().
			Err(err).
			Str("orderId", order.IncrementID).
			Str("kind", pipeline.ErrorKind(err)).
			Str("originalError", cause.Error()).
			Msg("failed to send payment failure notification")
		return
	}

	if dc.Outcome != pipeline.OutcomeReported {
		metrics.RecordFailureReport("skipped")
		return
	}
	metrics.RecordFailureReport("sent")
	logger.Ctx(dc.Ctx).Info().
		Str("orderId", order.IncrementID).
		Str("originalError", cause.Error()).
		Msg("payment failure notification sent")
}

func (g *Guard) newDecisionContext(ctx context.Context, stage domain.Stage, req domain.RequestContext, order *domain.Order, payment *domain.Payment) *pipeline.DecisionContext {
	runID := uuid.NewString()
	ctx = logger.WithFields(ctx, map[string]any{"fraudRunId": runID})
	return &pipeline.DecisionContext{
		Ctx:     ctx,
		Tracer:  g.tracer,
		RunID:   runID,
		Stage:   stage,
		Request: req,
		Order:   order,
		Payment: payment,
	}
}

func (g *Guard) failOpen(dc *pipeline.DecisionContext, kind string, err error) {
	metrics.RecordFailOpen(kind)
	logger.Ctx(dc.Ctx).Error().
		Err(err).
		Str("orderId", dc.Order.IncrementID).
		Str("kind", kind).
		Msg("error during payment place start, continuing checkout")
}
