package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"fraudgate/internal/pkg/bootstrap"
	"fraudgate/internal/pkg/logger"
	"fraudgate/internal/service/fraud/domain"
	"fraudgate/internal/service/fraud/domain/port"
)

const serviceName = "fraud-detection-service"

// 本地开发用的评分服务，决策由环境变量控制。
var (
	stubDecision       = getEnv("STUB_DECISION", "APPROVE")
	stubRecommendation = getEnv("STUB_RECOMMENDATION", "")
	stubThreeDsPolicy  = getEnv("STUB_THREE_DS_AUTH_ON_EXCLUSION", string(domain.ThreeDsAuthAlways))
)

type detectionRequest struct {
	AuthorizationStep string `json:"authorizationStep"`
	Order             struct {
		OrderNo string `json:"orderNo"`
	} `json:"order"`
	AdditionalIdentifiers struct {
		MagentoAdditionalOrderData struct {
			MagentoOrderStage string `json:"magentoOrderStage"`
		} `json:"magentoAdditionalOrderData"`
	} `json:"additionalIdentifiers"`
}

func main() {
	err := bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8085,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			appCtx.Router.Post(port.FraudDetectionPath, handleFraudDetection)
			appCtx.Router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			return nil
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("fraud detection service stopped")
	}
}

func handleFraudDetection(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := otel.Tracer(serviceName).Start(ctx, "fraud-detection-service.Detect")
	defer span.End()

	var req detectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	stage := req.AdditionalIdentifiers.MagentoAdditionalOrderData.MagentoOrderStage
	span.SetAttributes(
		attribute.String("order.no", req.Order.OrderNo),
		attribute.String("fraud.stage", stage),
	)
	logger.Ctx(ctx).Info().
		Str("orderId", req.Order.OrderNo).
		Str("stage", stage).
		Msg("performing fraud detection")

	data := map[string]any{
		"status":                 "success",
		"forterDecision":         stubDecision,
		"recommendation":         stubRecommendation,
		"threeDsAuthOnExclusion": stubThreeDsPolicy,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
