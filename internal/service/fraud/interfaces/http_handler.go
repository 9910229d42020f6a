package interfaces

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"fraudgate/internal/pkg/logger"
	"fraudgate/internal/service/fraud/application"
	"fraudgate/internal/service/fraud/domain"
)

// HeaderSession 携带结账会话 ID，用于解析登录顾客。
const HeaderSession = "X-Customer-Session"

// PaymentPlacer 是处理器依赖的应用服务。
type PaymentPlacer interface {
	PlacePayment(ctx context.Context, orderNo string, req domain.RequestContext) (*application.PlaceResult, error)
}

// CheckoutHandler 暴露支付下单接口。
type CheckoutHandler struct {
	placer PaymentPlacer
	tracer trace.Tracer
}

func NewCheckoutHandler(placer PaymentPlacer, tracer trace.Tracer) *CheckoutHandler {
	return &CheckoutHandler{placer: placer, tracer: tracer}
}

// RegisterRoutes 在 chi 路由上注册所有路由
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1/orders/{orderNo}/payments", func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Post("/place", h.placePayment)
	})
}

func (h *CheckoutHandler) placePayment(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.PlacePayment", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	orderNo := chi.URLParam(r, "orderNo")
	req := domain.RequestContext{
		Headers:    r.Header.Clone(),
		RemoteAddr: remoteHost(r.RemoteAddr),
	}

	result, err := h.placer.PlacePayment(ctx, orderNo, req)
	if err != nil {
		status, code, message := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Ctx(ctx).Error().Err(err).Str("orderId", orderNo).Msg("payment placement failed")
		}
		fail(w, status, code, message)
		return
	}
	ok(w, result)
}

// classify 把错误映射为 HTTP 状态码，拒单只返回固定文案。
func classify(err error) (int, string, string) {
	var declined *domain.PaymentDeclinedError
	switch {
	case errors.As(err, &declined):
		return http.StatusUnprocessableEntity, "PAYMENT_DECLINED", declined.Message
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound, "NOT_FOUND", "order or payment not found"
	case errors.Is(err, domain.ErrAuthorizationRefused):
		return http.StatusPaymentRequired, "PAYMENT_REFUSED", "the payment was refused"
	default:
		return http.StatusBadGateway, "PAYMENT_FAILED", "the payment could not be processed"
	}
}

func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(HeaderSession); id != "" {
			r = r.WithContext(domain.WithSessionID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
