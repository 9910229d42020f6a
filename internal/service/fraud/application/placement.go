// internal/service/fraud/application/placement.go
package application

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"fraudgate/internal/pkg/logger"
	"fraudgate/internal/service/fraud/application/pipeline"
	"fraudgate/internal/service/fraud/domain"
	"fraudgate/internal/service/fraud/domain/port"
)

// PlacementService 编排一次支付下单：风控决策、PSP 授权、回写支付、发布决策事件。
type PlacementService struct {
	orders    port.OrderRepository
	payments  port.PaymentRepository
	gateway   port.PaymentGateway
	publisher port.DecisionPublisher
	methods   port.PaymentMethodProvider
	guard     *Guard
	tracer    trace.Tracer
}

func NewPlacementService(orders port.OrderRepository, payments port.PaymentRepository, gateway port.PaymentGateway, publisher port.DecisionPublisher, guard *Guard, tracer trace.Tracer) *PlacementService {
	return &PlacementService{
		orders:    orders,
		payments:  payments,
		gateway:   gateway,
		publisher: publisher,
		guard:     guard,
		tracer:    tracer,
	}
}

// WithPaymentMethods 设置 PSP 支付方式登记表，用于标记决策事件是否由下游 3DS 组件接管。
func (s *PlacementService) WithPaymentMethods(methods port.PaymentMethodProvider) *PlacementService {
	s.methods = methods
	return s
}

// PlaceResult 是下单结果。
type PlaceResult struct {
	OrderNo   string           `json:"orderNo"`
	PaymentID string           `json:"paymentId"`
	Outcome   pipeline.Outcome `json:"fraudOutcome"`
	Decision  string           `json:"fraudDecision,omitempty"`
}

// PlacePayment 返回的错误可能是 *domain.PaymentDeclinedError、仓储错误或 PSP 错误。
func (s *PlacementService) PlacePayment(ctx context.Context, orderNo string, req domain.RequestContext) (*PlaceResult, error) {
	ctx, span := s.tracer.Start(ctx, "app.PlacePayment", trace.WithAttributes(attribute.String("order.no", orderNo)))
	defer span.End()

	order, err := s.orders.FindByIncrementID(ctx, orderNo)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load order failed")
		return nil, errors.Wrapf(err, "load order %s", orderNo)
	}
	payment, err := s.payments.FindByOrderNo(ctx, orderNo)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load payment failed")
		return nil, errors.Wrapf(err, "load payment for order %s", orderNo)
	}

	result := &PlaceResult{OrderNo: orderNo, PaymentID: payment.ID}
	placeErr := s.guard.AroundPlace(ctx, req, order, payment, func(ctx context.Context) error {
		outcome, err := s.guard.BeforePaymentAction(ctx, req, order, payment)
		result.Outcome = outcome
		if err != nil {
			return err
		}
		return s.gateway.Authorize(ctx, order, payment)
	})
	if decided(result.Outcome) {
		result.Decision = stringValue(payment, domain.PreDecisionKey)
	}

	s.persist(ctx, order, payment, result, domain.IsPaymentDeclined(placeErr))

	if placeErr != nil {
		span.RecordError(placeErr)
		span.SetStatus(codes.Error, "payment placement failed")
		return result, placeErr
	}
	logger.Ctx(ctx).Info().
		Str("orderId", orderNo).
		Str("fraudOutcome", string(result.Outcome)).
		Msg("✅ payment placed")
	return result, nil
}

// persist 回写支付并发布决策事件，两者都是尽力而为，失败只记录日志。
func (s *PlacementService) persist(ctx context.Context, order *domain.Order, payment *domain.Payment, result *PlaceResult, blocked bool) {
	var g errgroup.Group
	g.Go(func() error {
		if err := s.payments.Save(ctx, payment); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("orderId", order.IncrementID).Msg("failed to save payment")
		}
		return nil
	})
	if result.Decision != "" && s.publisher != nil {
		event := port.DecisionEvent{
			OrderNo:                order.IncrementID,
			PaymentID:              payment.ID,
			Decision:               result.Decision,
			Recommendations:        stringSlice(payment, domain.PreRecommendationsKey),
			ThreeDsAuthOnExclusion: stringValue(payment, domain.ThreeDsAuthOnExclusionKey),
			Blocked:                blocked,
			ThreeDsManaged:         s.threeDsManaged(payment.Method),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			event.TraceID = sc.TraceID().String()
		}
		g.Go(func() error {
			if err := s.publisher.PublishDecision(ctx, event); err != nil {
				logger.Ctx(ctx).Error().Err(err).Str("orderId", order.IncrementID).Msg("failed to publish fraud decision")
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *PlacementService) threeDsManaged(method string) bool {
	if s.methods == nil {
		return false
	}
	return slices.Contains(s.methods.PaymentMethods(), method)
}

// decided 判断本次运行是否拿到了评分服务的决策。
func decided(outcome pipeline.Outcome) bool {
	switch outcome {
	case pipeline.OutcomeApproved, pipeline.OutcomeChallengeDeferred, pipeline.OutcomeDeclined:
		return true
	}
	return false
}

func stringValue(payment *domain.Payment, key string) string {
	v, _ := payment.AdditionalInformationValue(key)
	s, _ := v.(string)
	return s
}

func stringSlice(payment *domain.Payment, key string) []string {
	v, _ := payment.AdditionalInformationValue(key)
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}
